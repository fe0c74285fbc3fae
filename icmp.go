package keepalive

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/tatsushid/go-fastping"
)

type IcmpStatus struct {
	Addr      net.IP
	Reachable bool
	Rtt       time.Duration
}

type Pinger interface {
	Ping(ctx context.Context, host string) (*IcmpStatus, error)
}

// IcmpPinger sends a single echo request to a host.
// Privileged mode uses raw sockets; otherwise unprivileged udp pings are used.
type IcmpPinger struct {
	Privileged bool
}

func (this *IcmpPinger) Ping(ctx context.Context, host string) (*IcmpStatus, error) {

	addr, err := net.ResolveIPAddr("ip", host)
	if err != nil {
		return nil, fmt.Errorf("net.ResolveIPAddr: %v", err)
	}

	maxRtt := 5 * time.Second
	if deadline, has := ctx.Deadline(); has {
		maxRtt = time.Until(deadline)
	}

	pinger := fastping.NewPinger()
	pinger.MaxRTT = maxRtt
	pinger.AddIPAddr(addr)

	if !this.Privileged {
		pinger.Network("udp")
	}

	//	buffered so that callbacks never block after the context is gone
	statusCh := make(chan IcmpStatus, 2)
	errorCh := make(chan error, 1)

	pinger.OnRecv = func(addr *net.IPAddr, rtt time.Duration) {
		statusCh <- IcmpStatus{Addr: addr.IP, Reachable: true, Rtt: rtt}
	}

	go func() {
		if err := pinger.Run(); err != nil {
			errorCh <- err
			return
		}
		statusCh <- IcmpStatus{Addr: addr.IP}
	}()

	select {

	case status := <-statusCh:
		return &status, nil

	case err := <-errorCh:
		return nil, fmt.Errorf("pinger.Run: %v", err)

	case <-ctx.Done():
		return &IcmpStatus{Addr: addr.IP}, nil
	}
}
