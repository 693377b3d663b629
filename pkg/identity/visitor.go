// Package identity derives the keys chapter views are attributed to.
package identity

import (
	"encoding/hex"
	"net"
	"strings"

	"golang.org/x/crypto/blake2b"
)

const visitorPrefix = "visitor:"

type VisitorKeyer struct {
	salt []byte
}

func NewVisitorKeyer(salt string) *VisitorKeyer {
	return &VisitorKeyer{salt: []byte(salt)}
}

// Key maps a client network address to a stable anonymous identity.
// IPv6 addresses are folded to their /64 so privacy extensions rotating the
// interface id do not reset a guest's daily quota.
func (k *VisitorKeyer) Key(clientIP string) string {
	addr := normalizeAddr(clientIP)

	h, err := blake2b.New256(k.salt)
	if err != nil {
		// only returned for keys longer than 64 bytes
		sum := blake2b.Sum256(append(k.salt, addr...))
		return visitorPrefix + hex.EncodeToString(sum[:16])
	}
	h.Write([]byte(addr))
	return visitorPrefix + hex.EncodeToString(h.Sum(nil)[:16])
}

// IsVisitorKey tells visitor keys apart from user ids, which never carry the prefix.
func IsVisitorKey(key string) bool {
	return strings.HasPrefix(key, visitorPrefix)
}

func normalizeAddr(clientIP string) string {
	ip := net.ParseIP(strings.TrimSpace(clientIP))
	if ip == nil {
		return strings.TrimSpace(clientIP)
	}
	if v4 := ip.To4(); v4 != nil {
		return v4.String()
	}
	return ip.Mask(net.CIDRMask(64, 128)).String()
}
