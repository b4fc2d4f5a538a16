// Package presence publishes the player's status to the local Discord client over its IPC socket.
package presence

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
)

const (
	opHandshake uint32 = 0
	opFrame     uint32 = 1
	opClose     uint32 = 2

	maxFrame = 64 << 10
)

// ErrNoSocket means no Discord client is listening on any candidate socket.
var ErrNoSocket = errors.New("presence: no discord ipc socket")

// Button is a clickable link shown under the activity.
type Button struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Activity is what the profile card shows.
type Activity struct {
	State      string
	Details    string
	Start      time.Time
	LargeImage string
	LargeText  string
	SmallImage string
	SmallText  string
	Buttons    []Button
}

type activityAssets struct {
	LargeImage string `json:"large_image,omitempty"`
	LargeText  string `json:"large_text,omitempty"`
	SmallImage string `json:"small_image,omitempty"`
	SmallText  string `json:"small_text,omitempty"`
}

type activityTimestamps struct {
	Start int64 `json:"start,omitempty"`
}

type activityPayload struct {
	State      string              `json:"state,omitempty"`
	Details    string              `json:"details,omitempty"`
	Timestamps *activityTimestamps `json:"timestamps,omitempty"`
	Assets     *activityAssets     `json:"assets,omitempty"`
	Buttons    []Button            `json:"buttons,omitempty"`
}

func (a Activity) payload() activityPayload {
	p := activityPayload{State: a.State, Details: a.Details, Buttons: a.Buttons}
	if !a.Start.IsZero() {
		p.Timestamps = &activityTimestamps{Start: a.Start.Unix()}
	}
	if a.LargeImage != "" || a.SmallImage != "" {
		p.Assets = &activityAssets{
			LargeImage: a.LargeImage,
			LargeText:  a.LargeText,
			SmallImage: a.SmallImage,
			SmallText:  a.SmallText,
		}
	}
	return p
}

type command struct {
	Cmd   string `json:"cmd"`
	Args  any    `json:"args,omitempty"`
	Nonce string `json:"nonce"`
}

type setActivityArgs struct {
	PID      int             `json:"pid"`
	Activity activityPayload `json:"activity"`
}

type reply struct {
	Cmd  string          `json:"cmd"`
	Evt  string          `json:"evt"`
	Data json.RawMessage `json:"data"`
	Code int             `json:"code"`
	Msg  string          `json:"message"`
}

// Client is a handshaken IPC connection.
type Client struct {
	conn  io.ReadWriteCloser
	pid   int
	nonce func() string
}

// Dial connects to the first listening Discord socket and performs the handshake.
func Dial(clientID string) (*Client, error) {
	for _, path := range socketPaths() {
		conn, err := dialSocket(path, time.Second)
		if err != nil {
			continue
		}
		c, err := NewClient(conn, clientID)
		if err != nil {
			_ = conn.Close()
			return nil, err
		}
		return c, nil
	}
	return nil, ErrNoSocket
}

// NewClient handshakes over an established connection and waits for the READY reply.
func NewClient(conn io.ReadWriteCloser, clientID string) (*Client, error) {
	c := &Client{conn: conn, pid: os.Getpid(), nonce: uuid.NewString}
	hello := map[string]any{"v": 1, "client_id": clientID}
	if err := c.send(opHandshake, hello); err != nil {
		return nil, err
	}
	if _, err := c.receive(); err != nil {
		return nil, fmt.Errorf("presence: handshake: %w", err)
	}
	return c, nil
}

// SetActivity replaces the current activity and waits for the acknowledgement.
func (c *Client) SetActivity(a Activity) error {
	cmd := command{
		Cmd:   "SET_ACTIVITY",
		Args:  setActivityArgs{PID: c.pid, Activity: a.payload()},
		Nonce: c.nonce(),
	}
	if err := c.send(opFrame, cmd); err != nil {
		return err
	}
	r, err := c.receive()
	if err != nil {
		return err
	}
	if r.Evt == "ERROR" {
		return fmt.Errorf("presence: %s (%d)", r.Msg, r.Code)
	}
	return nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) send(op uint32, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("presence: encode: %w", err)
	}
	return writeFrame(c.conn, op, body)
}

func (c *Client) receive() (reply, error) {
	op, body, err := readFrame(c.conn)
	if err != nil {
		return reply{}, err
	}
	var r reply
	if err := json.Unmarshal(body, &r); err != nil {
		return reply{}, fmt.Errorf("presence: decode: %w", err)
	}
	if op == opClose {
		return r, fmt.Errorf("presence: closed by discord: %s (%d)", r.Msg, r.Code)
	}
	return r, nil
}

func writeFrame(w io.Writer, op uint32, body []byte) error {
	buf := make([]byte, 8+len(body))
	binary.LittleEndian.PutUint32(buf[0:4], op)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(body)))
	copy(buf[8:], body)
	_, err := w.Write(buf)
	return err
}

func readFrame(r io.Reader) (uint32, []byte, error) {
	var hdr [8]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return 0, nil, err
	}
	op := binary.LittleEndian.Uint32(hdr[0:4])
	n := binary.LittleEndian.Uint32(hdr[4:8])
	if n > maxFrame {
		return 0, nil, fmt.Errorf("presence: frame of %d bytes", n)
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return 0, nil, err
	}
	return op, body, nil
}
