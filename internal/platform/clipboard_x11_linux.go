//go:build linux
// +build linux

package platform

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"sync"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"go.uber.org/zap"

	"github.com/berrythewa/fmclip/internal/config"
	"github.com/berrythewa/fmclip/internal/types"
)

const toolXclip = "xclip"

// X11Clipboard reads the CLIPBOARD selection over the X protocol and hands
// writes to xclip, which stays alive to serve the selection.
type X11Clipboard struct {
	opts Options
}

// NewX11Clipboard creates the X11 backend.
func NewX11Clipboard(opts Options) (Clipboard, error) {
	if os.Getenv("DISPLAY") == "" {
		return nil, fmt.Errorf("DISPLAY is not set")
	}
	if !haveTool(toolXclip) {
		return nil, fmt.Errorf("%s not found, it is needed to own the clipboard selection", toolXclip)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &X11Clipboard{opts: opts}, nil
}

func (c *X11Clipboard) Name() string { return config.BackendX11 }

// ReadTyped implements Clipboard.
func (c *X11Clipboard) ReadTyped(ctx context.Context) (*types.ClipboardContent, error) {
	ctx, cancel := withTimeout(ctx, c.opts.Timeout)
	defer cancel()

	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}
	closeConn := sync.OnceFunc(conn.Close)
	defer closeConn()

	// closing the connection unblocks WaitForEvent
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			closeConn()
		case <-stop:
		}
	}()

	s := &x11Session{conn: conn, ctx: ctx}
	if err := s.init(); err != nil {
		return nil, err
	}

	offered, err := s.targets()
	if err != nil {
		return nil, err
	}
	if len(offered) == 0 {
		return nil, nil
	}

	i, tag := pickFormat(offered)
	if i < 0 {
		c.opts.Logger.Debug("No host tool format on the clipboard", zap.Strings("targets", offered))
		return inferFromText(ctx, c.opts, func(context.Context) ([]byte, error) {
			return s.convertNamed("UTF8_STRING")
		})
	}

	data, err := s.convertNamed(offered[i])
	if err != nil {
		return nil, err
	}
	return types.NewClipboardContent(tag, data), nil
}

// WriteTyped implements Clipboard.
func (c *X11Clipboard) WriteTyped(ctx context.Context, content *types.ClipboardContent) error {
	ctx, cancel := withTimeout(ctx, c.opts.Timeout)
	defer cancel()
	return runInput(ctx, content.Data, toolXclip, "-selection", "clipboard", "-t", FormatName(content.Tag), "-i")
}

func (c *X11Clipboard) Close() error { return nil }

var errSelectionRefused = errors.New("selection owner refused the conversion")

// x11Session is one short-lived connection used for a single read.
type x11Session struct {
	conn      *xgb.Conn
	ctx       context.Context
	win       xproto.Window
	clipboard xproto.Atom
	property  xproto.Atom
	incr      xproto.Atom
	targetsA  xproto.Atom
}

func (s *x11Session) init() error {
	screen := xproto.Setup(s.conn).DefaultScreen(s.conn)

	win, err := xproto.NewWindowId(s.conn)
	if err != nil {
		return fmt.Errorf("failed to allocate window: %w", err)
	}
	err = xproto.CreateWindowChecked(s.conn, screen.RootDepth, win, screen.Root,
		0, 0, 1, 1, 0, xproto.WindowClassInputOutput, screen.RootVisual,
		xproto.CwEventMask, []uint32{xproto.EventMaskPropertyChange}).Check()
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	s.win = win

	for name, dst := range map[string]*xproto.Atom{
		"CLIPBOARD":        &s.clipboard,
		"FMCLIP_SELECTION": &s.property,
		"INCR":             &s.incr,
		"TARGETS":          &s.targetsA,
	} {
		if *dst, err = s.atom(name); err != nil {
			return err
		}
	}
	return nil
}

func (s *x11Session) atom(name string) (xproto.Atom, error) {
	reply, err := xproto.InternAtom(s.conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, fmt.Errorf("failed to intern atom %s: %w", name, err)
	}
	return reply.Atom, nil
}

func (s *x11Session) atomName(a xproto.Atom) (string, error) {
	reply, err := xproto.GetAtomName(s.conn, a).Reply()
	if err != nil {
		return "", fmt.Errorf("failed to resolve atom %d: %w", a, err)
	}
	return reply.Name, nil
}

// targets lists the formats offered by the selection owner.
func (s *x11Session) targets() ([]string, error) {
	data, err := s.convert(s.targetsA)
	if errors.Is(err, errSelectionRefused) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(data)/4)
	for i := 0; i+4 <= len(data); i += 4 {
		name, err := s.atomName(xproto.Atom(xgb.Get32(data[i:])))
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

func (s *x11Session) convertNamed(target string) ([]byte, error) {
	a, err := s.atom(target)
	if err != nil {
		return nil, err
	}
	return s.convert(a)
}

func (s *x11Session) convert(target xproto.Atom) ([]byte, error) {
	xproto.ConvertSelection(s.conn, s.win, s.clipboard, target, s.property, xproto.TimeCurrentTime)

	for {
		ev, err := s.nextEvent()
		if err != nil {
			return nil, err
		}
		notify, ok := ev.(xproto.SelectionNotifyEvent)
		if !ok {
			continue
		}
		if notify.Property == xproto.AtomNone {
			return nil, errSelectionRefused
		}
		return s.readProperty()
	}
}

// readProperty fetches the converted data, following the INCR protocol for
// payloads the owner sends in chunks.
func (s *x11Session) readProperty() ([]byte, error) {
	reply, err := s.getProperty()
	if err != nil {
		return nil, err
	}
	if reply.Type != s.incr {
		return reply.Value, nil
	}

	var buf []byte
	for {
		ev, err := s.nextEvent()
		if err != nil {
			return nil, err
		}
		pn, ok := ev.(xproto.PropertyNotifyEvent)
		if !ok || pn.Atom != s.property || pn.State != xproto.PropertyNewValue {
			continue
		}
		chunk, err := s.getProperty()
		if err != nil {
			return nil, err
		}
		if len(chunk.Value) == 0 {
			return buf, nil
		}
		buf = append(buf, chunk.Value...)
	}
}

func (s *x11Session) getProperty() (*xproto.GetPropertyReply, error) {
	reply, err := xproto.GetProperty(s.conn, true, s.win, s.property,
		xproto.GetPropertyTypeAny, 0, math.MaxUint32/4).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to read selection property: %w", err)
	}
	return reply, nil
}

func (s *x11Session) nextEvent() (xgb.Event, error) {
	ev, xerr := s.conn.WaitForEvent()
	if ev == nil && xerr == nil {
		if s.ctx.Err() != nil {
			return nil, fmt.Errorf("clipboard owner did not answer: %w", s.ctx.Err())
		}
		return nil, errors.New("X connection closed")
	}
	if xerr != nil {
		return nil, fmt.Errorf("X error: %s", xerr.Error())
	}
	return ev, nil
}
