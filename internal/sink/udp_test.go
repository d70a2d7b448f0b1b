package sink

import (
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/tfontaine/geosim/pkg/geomessage"
)

func TestUDPSink_SendsOneDatagramPerMessage(t *testing.T) {
	ln, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	port := ln.LocalAddr().(*net.UDPAddr).Port

	s, err := NewUDPSink("127.0.0.1", port)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	msg := geomessage.New([]geomessage.Field{
		{Name: "_id", Value: "42"},
		{Name: "_name", Value: "Unit 7"},
	})
	if err := s.Send(msg); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	ln.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 64*1024)
	n, _, err := ln.ReadFromUDP(buf)
	if err != nil {
		t.Fatalf("reading datagram: %v", err)
	}

	got := string(buf[:n])
	if !strings.Contains(got, "<_id>42</_id>") {
		t.Errorf("datagram = %q, missing _id field", got)
	}
	if !strings.HasPrefix(got, "<geomessage>") {
		t.Errorf("datagram = %q, want a <geomessage> element", got)
	}
}

func TestUDPSink_Defaults(t *testing.T) {
	s, err := NewUDPSink("", 0)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	want := "255.255.255.255:45678"
	if got := s.Addr(); got != want {
		t.Errorf("Addr() = %q, want %q", got, want)
	}
}

func TestUDPSink_InvalidHost(t *testing.T) {
	if _, err := NewUDPSink("not-an-ip", DefaultPort); err == nil {
		t.Error("expected error for unparseable host")
	}
}

func TestCaptureSink_RecordsAndFails(t *testing.T) {
	s := NewCaptureSink()
	msg := geomessage.New([]geomessage.Field{{Name: "_id", Value: "1"}})

	if err := s.Send(msg); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}

	boom := errors.New("boom")
	s.FailWith(boom)
	if err := s.Send(msg); !errors.Is(err, boom) {
		t.Errorf("Send() error = %v, want injected failure", err)
	}
	// The attempt is still recorded.
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
}
