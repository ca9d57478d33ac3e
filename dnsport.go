package recursor

// dnsPort is the standard DNS port (can be overridden for testing)
var dnsPort uint16 = 53
