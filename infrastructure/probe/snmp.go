package probe

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	log "github.com/golang/glog"
	"github.com/gosnmp/gosnmp"
)

// SysUpTimeOID is SNMPv2-MIB::sysUpTime.0
const SysUpTimeOID = ".1.3.6.1.2.1.1.3.0"

type uptimeGetter func(ctx context.Context, host string) (time.Duration, error)

type tcpDialer func(ctx context.Context, address string) (net.Conn, error)

// SNMPProber decides whether a device answers before a run starts. It asks for
// sysUpTime over SNMPv2c and falls back to a TCP connect on the CLI port.
type SNMPProber struct {
	Community    string
	Port         int
	Timeout      time.Duration
	Retries      int
	FallbackPort int

	getUptime uptimeGetter
	dial      tcpDialer
}

// NewSNMPProber creates a prober; fallbackPort is the device CLI port, 0 disables the fallback
func NewSNMPProber(community string, port int, timeout time.Duration, retries, fallbackPort int) *SNMPProber {
	p := &SNMPProber{
		Community:    community,
		Port:         port,
		Timeout:      timeout,
		Retries:      retries,
		FallbackPort: fallbackPort,
	}
	p.getUptime = p.snmpUptime
	p.dial = func(ctx context.Context, address string) (net.Conn, error) {
		d := net.Dialer{Timeout: p.Timeout}
		return d.DialContext(ctx, "tcp", address)
	}
	return p
}

// Reachable reports whether host answers SNMP or accepts a TCP connection
func (p *SNMPProber) Reachable(ctx context.Context, host string) (bool, error) {
	uptime, err := p.getUptime(ctx, host)
	if err == nil {
		log.V(1).Infof("%s answers SNMP, up %s", host, uptime)
		return true, nil
	}
	log.V(1).Infof("%s: snmp probe failed: %v", host, err)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return false, ctxErr
	}

	if p.FallbackPort == 0 {
		return false, nil
	}
	address := net.JoinHostPort(host, strconv.Itoa(p.FallbackPort))
	conn, err := p.dial(ctx, address)
	if err != nil {
		log.Warningf("%s is not reachable: %v", host, err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		return false, nil
	}
	conn.Close()
	log.V(1).Infof("%s accepts connections on %s", host, address)
	return true, nil
}

func (p *SNMPProber) snmpUptime(ctx context.Context, host string) (time.Duration, error) {
	g := &gosnmp.GoSNMP{
		Target:    host,
		Port:      uint16(p.Port),
		Community: p.Community,
		Version:   gosnmp.Version2c,
		Timeout:   p.Timeout,
		Retries:   p.Retries,
		Transport: "udp",
		Context:   ctx,
	}
	if err := g.Connect(); err != nil {
		return 0, fmt.Errorf("failed to open snmp session: %w", err)
	}
	defer g.Conn.Close()

	result, err := g.Get([]string{SysUpTimeOID})
	if err != nil {
		return 0, err
	}
	if len(result.Variables) == 0 {
		return 0, fmt.Errorf("empty snmp response")
	}
	return parseUptime(result.Variables[0])
}

// parseUptime converts a sysUpTime varbind, counted in hundredths of a second
func parseUptime(pdu gosnmp.SnmpPDU) (time.Duration, error) {
	switch pdu.Type {
	case gosnmp.NoSuchObject, gosnmp.NoSuchInstance, gosnmp.EndOfMibView, gosnmp.Null:
		return 0, fmt.Errorf("%s not available: %v", pdu.Name, pdu.Type)
	}
	ticks := gosnmp.ToBigInt(pdu.Value).Int64()
	return time.Duration(ticks) * 10 * time.Millisecond, nil
}
