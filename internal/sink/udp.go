package sink

import (
	"fmt"
	"net"

	"github.com/tfontaine/geosim/pkg/geomessage"
)

// DefaultPort is the well-known geomessage broadcast port.
const DefaultPort = 45678

// DefaultBroadcastHost is the limited broadcast address used when no host
// is configured.
const DefaultBroadcastHost = "255.255.255.255"

// UDPSink broadcasts each geomessage as one XML datagram.
type UDPSink struct {
	conn *net.UDPConn
	addr *net.UDPAddr
}

// NewUDPSink opens a UDP socket aimed at host:port. An empty host selects
// the limited broadcast address; port 0 selects DefaultPort.
func NewUDPSink(host string, port int) (*UDPSink, error) {
	if host == "" {
		host = DefaultBroadcastHost
	}
	if port == 0 {
		port = DefaultPort
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return nil, fmt.Errorf("invalid broadcast host %q", host)
	}

	addr := &net.UDPAddr{IP: ip, Port: port}
	conn, err := net.DialUDP("udp4", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("opening udp socket to %s: %w", addr, err)
	}
	return &UDPSink{conn: conn, addr: addr}, nil
}

// Send serializes msg and writes it as a single datagram.
func (s *UDPSink) Send(msg geomessage.Message) error {
	data, err := msg.EncodeXML()
	if err != nil {
		return fmt.Errorf("encoding geomessage: %w", err)
	}
	if _, err := s.conn.Write(data); err != nil {
		return fmt.Errorf("broadcasting to %s: %w", s.addr, err)
	}
	return nil
}

// Addr returns the destination address.
func (s *UDPSink) Addr() string {
	return s.addr.String()
}

// Close releases the socket.
func (s *UDPSink) Close() error {
	return s.conn.Close()
}
