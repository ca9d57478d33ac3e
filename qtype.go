package recursor

import "strconv"

// Type is a DNS record/query type. The numeric value is canonical; the
// named constants cover the types this resolver understands.
type Type uint16

const (
	TypeA     Type = 1
	TypeNS    Type = 2
	TypeCNAME Type = 5
	TypeMX    Type = 15
	TypeAAAA  Type = 28
)

var typeToString = map[Type]string{
	TypeA:     "A",
	TypeNS:    "NS",
	TypeCNAME: "CNAME",
	TypeMX:    "MX",
	TypeAAAA:  "AAAA",
}

func (t Type) String() string {
	if s, ok := typeToString[t]; ok {
		return s
	}
	return "TYPE" + strconv.Itoa(int(t))
}
