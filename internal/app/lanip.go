package app

import "net"

// addrSource lists the addresses of the host's usable network interfaces
type addrSource func() ([]net.Addr, error)

// interfaceAddrs returns the addresses of interfaces that are up and not
// loopback. Interfaces whose addresses cannot be read are skipped.
func interfaceAddrs() ([]net.Addr, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	var addrs []net.Addr
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		a, err := iface.Addrs()
		if err != nil {
			continue
		}
		addrs = append(addrs, a...)
	}
	return addrs, nil
}

// lanIP picks the address players on the local network should use: the
// first private IPv4 address, else the first other IPv4 address, else
// localhost.
func lanIP(source addrSource) string {
	addrs, err := source()
	if err != nil {
		return "localhost"
	}

	var fallback string
	for _, addr := range addrs {
		ip := ipOf(addr)
		if ip == nil || ip.To4() == nil || ip.IsLoopback() {
			continue
		}
		if ip.IsPrivate() {
			return ip.String()
		}
		if fallback == "" {
			fallback = ip.String()
		}
	}

	if fallback != "" {
		return fallback
	}
	return "localhost"
}

func ipOf(addr net.Addr) net.IP {
	switch v := addr.(type) {
	case *net.IPNet:
		return v.IP
	case *net.IPAddr:
		return v.IP
	}
	return nil
}
