package media

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dexterlb/mpvipc"
)

// ErrTimeout is returned when mpv does not answer a command in time.
var ErrTimeout = errors.New("mpv did not reply in time")

// MPV drives an mpv player through its JSON IPC socket
// (mpv --idle --input-ipc-server=PATH). The connection is opened on first
// use and reopened after mpv goes away.
type MPV struct {
	socket  string
	timeout time.Duration

	mu   sync.Mutex
	conn *mpvipc.Connection
}

// NewMPV returns an element bound to the IPC socket at path.
func NewMPV(path string) *MPV {
	return &MPV{socket: path, timeout: 2 * time.Second}
}

// Load replaces the current file with url, paused.
func (m *MPV) Load(url string) error {
	if err := m.call("loadfile", url, "replace"); err != nil {
		return err
	}
	return m.set("pause", true)
}

// Play implements Element.
func (m *MPV) Play() error { return m.set("pause", false) }

// Pause implements Element.
func (m *MPV) Pause() error { return m.set("pause", true) }

// SetMuted implements Element.
func (m *MPV) SetMuted(muted bool) error { return m.set("mute", muted) }

// RequestFullscreen implements Element.
func (m *MPV) RequestFullscreen() error { return m.set("fullscreen", true) }

// Close disconnects from mpv. The player keeps running.
func (m *MPV) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn == nil {
		return nil
	}
	err := m.conn.Close()
	m.conn = nil
	return err
}

func (m *MPV) connection() (*mpvipc.Connection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn != nil && !m.conn.IsClosed() {
		return m.conn, nil
	}
	conn := mpvipc.NewConnection(m.socket)
	if err := conn.Open(); err != nil {
		return nil, fmt.Errorf("dial mpv: %w", err)
	}
	m.conn = conn
	return conn, nil
}

func (m *MPV) set(property string, value any) error {
	return m.call("set_property", property, value)
}

// call runs one command. mpvipc waits for the reply without a deadline, so
// the wait is bounded here and a silent player is disconnected.
func (m *MPV) call(args ...any) error {
	conn, err := m.connection()
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		_, err := conn.Call(args...)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("mpv %v: %w", args[0], err)
		}
		return nil
	case <-time.After(m.timeout):
		_ = conn.Close()
		return fmt.Errorf("mpv %v: %w", args[0], ErrTimeout)
	}
}
