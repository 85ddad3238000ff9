/*
Copyright © 2026 Acronis International GmbH.

Released under MIT license.
*/

// Package netutil contains network helpers shared by servers of this module.
package netutil

import (
	"context"
	"fmt"
	"net"
	"time"
)

const listenPollInterval = 10 * time.Millisecond

// WaitListeningServer waits until the server is ready to accept TCP connection on the passing address.
func WaitListeningServer(ctx context.Context, addr string) error {
	ticker := time.NewTicker(listenPollInterval)
	defer ticker.Stop()
	var dialer net.Dialer
	for {
		if conn, err := dialer.DialContext(ctx, "tcp", addr); err == nil {
			return conn.Close()
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("wait for listening server on %s: %w", addr, ctx.Err())
		case <-ticker.C:
		}
	}
}
