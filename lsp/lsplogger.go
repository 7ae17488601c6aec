package lsp

import (
	"context"
	"slices"
	"strings"
	"sync"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// logQueueSize bounds the entries waiting for delivery. Entries beyond it are
// dropped rather than blocking the caller.
const logQueueSize = 100

// clientLogCore is a zapcore.Core that forwards entries to the editor through
// window/logMessage, so server logs show up in the client's LSP log view.
type clientLogCore struct {
	zapcore.LevelEnabler

	client  protocol.Client
	encoder zapcore.Encoder
	fields  []zapcore.Field
	queue   chan protocol.LogMessageParams

	// mu serializes encoding, shared by every core derived with With.
	mu *sync.Mutex
}

// NewLSPLogger returns a logger that writes to fallback (typically stderr)
// and to the client. Call the returned stop function once the connection is
// closed to end delivery.
func NewLSPLogger(client protocol.Client, fallback zapcore.Core, level zapcore.LevelEnabler) (*zap.Logger, func()) {
	ctx, cancel := context.WithCancel(context.Background())

	core := &clientLogCore{
		LevelEnabler: level,
		client:       client,
		encoder: zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
			MessageKey:     "msg",
			NameKey:        "logger",
			EncodeDuration: zapcore.StringDurationEncoder,
		}),
		queue: make(chan protocol.LogMessageParams, logQueueSize),
		mu:    &sync.Mutex{},
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		core.deliver(ctx)
	}()

	stop := func() {
		cancel()
		wg.Wait()
	}

	return zap.New(zapcore.NewTee(core, fallback)), stop
}

// deliver sends queued entries until ctx is done. Send errors are ignored:
// the client may already be gone.
func (c *clientLogCore) deliver(ctx context.Context) {
	for {
		select {
		case params := <-c.queue:
			_ = c.client.LogMessage(ctx, &params)
		case <-ctx.Done():
			return
		}
	}
}

// With implements zapcore.Core.
func (c *clientLogCore) With(fields []zapcore.Field) zapcore.Core {
	clone := *c
	clone.encoder = c.encoder.Clone()
	clone.fields = append(slices.Clone(c.fields), fields...)

	return &clone
}

// Check implements zapcore.Core.
func (c *clientLogCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return ce.AddCore(entry, c)
	}

	return ce
}

// Write implements zapcore.Core.
func (c *clientLogCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	c.mu.Lock()
	buf, err := c.encoder.EncodeEntry(entry, append(slices.Clone(c.fields), fields...))
	c.mu.Unlock()

	if err != nil {
		return err
	}

	message := strings.TrimSpace(buf.String())
	buf.Free()

	select {
	case c.queue <- protocol.LogMessageParams{Type: messageType(entry.Level), Message: message}:
	default:
	}

	return nil
}

// Sync implements zapcore.Core.
func (c *clientLogCore) Sync() error {
	return nil
}

func messageType(level zapcore.Level) protocol.MessageType {
	switch {
	case level >= zapcore.ErrorLevel:
		return protocol.MessageTypeError
	case level == zapcore.WarnLevel:
		return protocol.MessageTypeWarning
	case level == zapcore.InfoLevel:
		return protocol.MessageTypeInfo
	default:
		return protocol.MessageTypeLog
	}
}
