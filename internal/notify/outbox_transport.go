package notify

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// OutboxTransport writes messages to a local directory instead of sending them.
// The preview URL points at the written file.
type OutboxTransport struct {
	dir string
}

// NewOutboxTransport creates the outbox directory if needed.
func NewOutboxTransport(dir string) (*OutboxTransport, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create outbox: %w", err)
	}
	return &OutboxTransport{dir: dir}, nil
}

// Send stores msg as <id>.eml in the outbox.
func (t *OutboxTransport) Send(ctx context.Context, msg Message) (*Delivery, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	path, err := filepath.Abs(filepath.Join(t.dir, id+".eml"))
	if err != nil {
		return nil, fmt.Errorf("resolve outbox path: %w", err)
	}

	if err := os.WriteFile(path, []byte(render(id, msg)), 0o640); err != nil {
		return nil, fmt.Errorf("write outbox message: %w", err)
	}
	return &Delivery{ID: id, PreviewURL: "file://" + filepath.ToSlash(path)}, nil
}

func render(id string, msg Message) string {
	const boundary = "quizhub-alternative"

	var b strings.Builder
	fmt.Fprintf(&b, "Message-ID: <%s>\r\n", id)
	fmt.Fprintf(&b, "From: %s\r\n", msg.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)

	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n", boundary, msg.Text)
	if msg.HTML != "" {
		fmt.Fprintf(&b, "--%s\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s\r\n", boundary, msg.HTML)
	}
	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return b.String()
}
