package fanlog

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/fanlog/sanitizer"
)

// Transport delivers formatted messages to a remote endpoint
type Transport interface {
	// Probe checks that the endpoint accepts the configured credentials
	Probe() error
	// Send delivers one message
	Send(text string) error
}

// RemoteOptions configures a RemoteHandler
type RemoteOptions struct {
	HandlerOptions
	Token        string        // Bot token
	ChatID       string        // Destination id
	Project      string        // Optional label prefixed to every message
	BaseURL      string        // API root, defaults to the Telegram Bot API
	Interval     time.Duration // Minimum spacing between deliveries
	FlushTimeout time.Duration // Budget for delivering the backlog on Destroy
	Transport    Transport     // Overrides the HTTP transport built from the fields above
}

// RemoteStats is a snapshot of delivery counters
type RemoteStats struct {
	Queued    int
	Delivered uint64
	Failed    uint64
	Dropped   uint64
	Connected bool
}

// RemoteHandler queues messages and delivers them one at a time from a
// background drain loop. Log never blocks on network I/O. Delivery is
// at-most-once: a failed message is reported and discarded.
//
// The endpoint is probed once during Setup. If that probe fails the handler
// stays disconnected and keeps queueing; there is no re-probe.
type RemoteHandler struct {
	handlerBase
	token        string
	chatID       string
	project      string
	baseURL      string
	interval     time.Duration
	flushTimeout time.Duration
	transport    Transport

	queueMu sync.Mutex
	queue   []string

	connected atomic.Bool
	inFlight  atomic.Bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}

	delivered atomic.Uint64
	failed    atomic.Uint64
	dropped   atomic.Uint64
}

// NewRemoteHandler creates an unconfigured remote handler
func NewRemoteHandler(opts RemoteOptions) *RemoteHandler {
	h := &RemoteHandler{
		token:        opts.Token,
		chatID:       opts.ChatID,
		project:      opts.Project,
		baseURL:      opts.BaseURL,
		interval:     opts.Interval,
		flushTimeout: opts.FlushTimeout,
		transport:    opts.Transport,
	}
	if h.baseURL == "" {
		h.baseURL = defaultRemoteBaseURL
	}
	if h.interval <= 0 {
		h.interval = defaultRemoteInterval
	}
	if h.flushTimeout <= 0 {
		h.flushTimeout = defaultRemoteFlushTimeout
	}
	h.init(opts.HandlerOptions)
	return h
}

// Setup validates credentials, starts the drain loop and probes the endpoint
// in the background
func (h *RemoteHandler) Setup() error {
	return h.setup(func() error {
		if strings.TrimSpace(h.token) == "" || strings.TrimSpace(h.chatID) == "" {
			return fmtErrorf("remote handler requires token and chat id: %w", ErrMissingCredentials)
		}
		if h.transport == nil {
			h.transport = NewHTTPTransport(h.baseURL, h.token, h.chatID, nil)
		}

		h.wake = make(chan struct{}, 1)
		h.stop = make(chan struct{})
		h.done = make(chan struct{})
		go h.drainLoop()
		go h.probe()
		return nil
	})
}

// Handle queues rec if it passes the threshold
func (h *RemoteHandler) Handle(rec *Record) error {
	return h.handle(rec, h.render, h.Log)
}

// Log wraps msg in markup and queues it for delivery
func (h *RemoteHandler) Log(msg string) error {
	if err := h.checkReady(); err != nil {
		return err
	}
	h.enqueue(h.wrap(msg))
	if h.connected.Load() {
		h.schedule()
	}
	return nil
}

// Destroy stops the drain loop, then delivers what is still queued until
// FlushTimeout elapses. Messages left after that are dropped. The whole
// teardown, including waiting out a delivery already in flight, is bounded
// by FlushTimeout.
func (h *RemoteHandler) Destroy() {
	h.destroy(func() {
		deadline := time.Now().Add(h.flushTimeout)
		timer := time.NewTimer(h.flushTimeout)
		defer timer.Stop()

		close(h.stop)
		select {
		case <-h.done:
			flushed := make(chan struct{})
			go func() {
				defer close(flushed)
				for h.connected.Load() && time.Now().Before(deadline) {
					if !h.drainOnce() && h.queueLen() == 0 {
						return
					}
				}
			}()
			select {
			case <-flushed:
			case <-timer.C:
				h.internalLog("remote handler flush exceeded %v, abandoning in-flight delivery", h.flushTimeout)
			}
		case <-timer.C:
			h.internalLog("remote handler drain loop did not stop within %v, abandoning in-flight delivery", h.flushTimeout)
		}

		h.queueMu.Lock()
		left := len(h.queue)
		h.queue = nil
		h.queueMu.Unlock()
		if left > 0 {
			h.dropped.Add(uint64(left))
			h.internalLog("remote handler dropped %d undelivered messages on shutdown", left)
		}
	})
}

// Connected reports whether the initial probe succeeded
func (h *RemoteHandler) Connected() bool {
	return h.connected.Load()
}

// Stats returns delivery counters
func (h *RemoteHandler) Stats() RemoteStats {
	return RemoteStats{
		Queued:    h.queueLen(),
		Delivered: h.delivered.Load(),
		Failed:    h.failed.Load(),
		Dropped:   h.dropped.Load(),
		Connected: h.connected.Load(),
	}
}

// wrap applies the project prefix and preformatted markup
func (h *RemoteHandler) wrap(msg string) string {
	var b strings.Builder
	if h.project != "" {
		b.WriteString("<b>")
		b.WriteString(sanitizer.EscapeHTML(h.project))
		b.WriteString("</b>\n")
	}
	b.WriteString("<pre>")
	b.WriteString(sanitizer.EscapeHTML(msg))
	b.WriteString("</pre>")
	return b.String()
}

// probe runs once; success connects the handler and triggers a drain
func (h *RemoteHandler) probe() {
	if err := h.transport.Probe(); err != nil {
		h.internalLog("remote handler connectivity probe failed, messages will queue: %v", err)
		return
	}
	h.connected.Store(true)
	h.schedule()
}

// schedule nudges the drain loop without blocking
func (h *RemoteHandler) schedule() {
	select {
	case h.wake <- struct{}{}:
	default:
	}
}

// drainLoop attempts one delivery per interval. The timer restarts after
// every attempt, so consecutive deliveries are at least one interval apart.
// A nudge drains early only if a full interval has passed since the last
// delivery finished.
func (h *RemoteHandler) drainLoop() {
	defer close(h.done)

	timer := time.NewTimer(h.interval)
	defer timer.Stop()

	var last time.Time
	drain := func() {
		if h.drainOnce() {
			last = time.Now()
		}
		timer.Reset(h.interval)
	}

	for {
		select {
		case <-h.stop:
			return
		case <-timer.C:
			drain()
		case <-h.wake:
			if time.Since(last) >= h.interval {
				drain()
			}
		}
	}
}

// drainOnce delivers the oldest queued message. It does nothing while a
// delivery is in flight, the queue is empty or the handler is disconnected.
// Reports whether a delivery was attempted.
func (h *RemoteHandler) drainOnce() bool {
	if !h.connected.Load() {
		return false
	}
	if !h.inFlight.CompareAndSwap(false, true) {
		return false
	}
	defer h.inFlight.Store(false)

	msg, ok := h.dequeue()
	if !ok {
		return false
	}
	if err := h.transport.Send(msg); err != nil {
		h.failed.Add(1)
		h.internalLog("remote delivery failed, message discarded: %v", err)
		return true
	}
	h.delivered.Add(1)
	return true
}

func (h *RemoteHandler) enqueue(msg string) {
	h.queueMu.Lock()
	h.queue = append(h.queue, msg)
	h.queueMu.Unlock()
}

func (h *RemoteHandler) dequeue() (string, bool) {
	h.queueMu.Lock()
	defer h.queueMu.Unlock()
	if len(h.queue) == 0 {
		return "", false
	}
	msg := h.queue[0]
	h.queue[0] = ""
	h.queue = h.queue[1:]
	return msg, true
}

func (h *RemoteHandler) queueLen() int {
	h.queueMu.Lock()
	defer h.queueMu.Unlock()
	return len(h.queue)
}
