package media

import (
	"context"
	"errors"
	"net"
	"net/url"
	"testing"
)

func stubProber(ips ...string) *DirectMediaProber {
	p := NewDirectMediaProber()
	p.lookupIP = func(context.Context, string) ([]net.IP, error) {
		var result []net.IP
		for _, ip := range ips {
			result = append(result, net.ParseIP(ip))
		}
		return result, nil
	}
	return p
}

func TestProberRefusesInternalHosts(t *testing.T) {
	p := stubProber("192.168.1.20")

	for _, raw := range []string{
		"https://10.0.0.5:8080/admin",
		"http://127.0.0.1/reel.mp4",
		"http://[::1]/reel.mp4",
		"http://169.254.169.254/latest/meta-data",
		"http://localhost:9000/reel.mp4",
		"https://nas.home.example/reel.mp4",
	} {
		u, err := url.Parse(raw)
		if err != nil {
			t.Fatalf("Parse(%q): %v", raw, err)
		}
		if _, err = p.ResolveMedia(context.Background(), u); !errors.Is(err, ErrForbiddenHost) {
			t.Fatalf("ResolveMedia(%q) = %v, expected ErrForbiddenHost", raw, err)
		}
	}
}

func TestProberAllowsPublicHosts(t *testing.T) {
	p := stubProber("93.184.216.34")
	if err := p.checkHost(context.Background(), "cdn.example.com"); err != nil {
		t.Fatalf("Public host refused: %v", err)
	}
	if err := p.checkHost(context.Background(), "93.184.216.34"); err != nil {
		t.Fatalf("Public address refused: %v", err)
	}
	if p.timeout != DefaultProbeTimeout {
		t.Fatalf("Unexpected probe timeout %v", p.timeout)
	}
}
