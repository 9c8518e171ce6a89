//go:build windows
// +build windows

package platform

import (
	"context"
	"fmt"
	"runtime"
	"syscall"
	"time"
	"unsafe"

	"go.uber.org/zap"
	"golang.org/x/sys/windows"

	"github.com/berrythewa/fmclip/internal/config"
	"github.com/berrythewa/fmclip/internal/types"
)

const gmemMoveable = 0x0002

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procOpenClipboard            = user32.NewProc("OpenClipboard")
	procCloseClipboard           = user32.NewProc("CloseClipboard")
	procEmptyClipboard           = user32.NewProc("EmptyClipboard")
	procEnumClipboardFormats     = user32.NewProc("EnumClipboardFormats")
	procGetClipboardFormatNameW  = user32.NewProc("GetClipboardFormatNameW")
	procGetClipboardData         = user32.NewProc("GetClipboardData")
	procSetClipboardData         = user32.NewProc("SetClipboardData")
	procRegisterClipboardFormatW = user32.NewProc("RegisterClipboardFormatW")

	procGlobalAlloc  = kernel32.NewProc("GlobalAlloc")
	procGlobalFree   = kernel32.NewProc("GlobalFree")
	procGlobalLock   = kernel32.NewProc("GlobalLock")
	procGlobalUnlock = kernel32.NewProc("GlobalUnlock")
	procGlobalSize   = kernel32.NewProc("GlobalSize")
)

// WindowsClipboard uses the registered "Mac-XXXX" clipboard formats.
type WindowsClipboard struct {
	logger  *zap.Logger
	timeout time.Duration
}

// NewWindowsClipboard creates the Win32 backend.
func NewWindowsClipboard(opts Options) (Clipboard, error) {
	if err := user32.Load(); err != nil {
		return nil, fmt.Errorf("failed to load user32: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WindowsClipboard{logger: logger, timeout: opts.Timeout}, nil
}

func (c *WindowsClipboard) Name() string { return config.BackendNative }

// ReadTyped implements Clipboard.
func (c *WindowsClipboard) ReadTyped(ctx context.Context) (*types.ClipboardContent, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := openClipboard(ctx); err != nil {
		return nil, err
	}
	defer procCloseClipboard.Call()

	var (
		names   []string
		formats []uintptr
	)
	for f := enumFormats(0); f != 0; f = enumFormats(f) {
		if name := formatName(f); name != "" {
			names = append(names, name)
			formats = append(formats, f)
		}
	}
	if len(names) == 0 {
		return nil, nil
	}

	i, tag := pickFormat(names)
	if i < 0 {
		c.logger.Debug("No host tool format on the clipboard", zap.Strings("formats", names))
		return types.NewClipboardContent("", nil), nil
	}

	data, err := readGlobal(formats[i])
	if err != nil {
		return nil, err
	}
	return types.NewClipboardContent(tag, unframe(data)), nil
}

// WriteTyped implements Clipboard.
func (c *WindowsClipboard) WriteTyped(ctx context.Context, content *types.ClipboardContent) error {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	name, err := windows.UTF16PtrFromString(FormatName(content.Tag))
	if err != nil {
		return fmt.Errorf("invalid format name: %w", err)
	}
	format, _, callErr := procRegisterClipboardFormatW.Call(uintptr(unsafe.Pointer(name)))
	if format == 0 {
		return fmt.Errorf("failed to register clipboard format: %w", callErr)
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := openClipboard(ctx); err != nil {
		return err
	}
	defer procCloseClipboard.Call()

	if r, _, callErr := procEmptyClipboard.Call(); r == 0 {
		return fmt.Errorf("failed to empty clipboard: %w", callErr)
	}

	h, err := allocGlobal(frame(content.Data))
	if err != nil {
		return err
	}
	if r, _, callErr := procSetClipboardData.Call(format, h); r == 0 {
		procGlobalFree.Call(h)
		return fmt.Errorf("failed to set clipboard data: %w", callErr)
	}
	return nil
}

func (c *WindowsClipboard) Close() error { return nil }

// openClipboard retries while another process holds the clipboard.
func openClipboard(ctx context.Context) error {
	for {
		r, _, callErr := procOpenClipboard.Call(0)
		if r != 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("failed to open clipboard: %v: %w", callErr, ctx.Err())
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func enumFormats(prev uintptr) uintptr {
	f, _, _ := procEnumClipboardFormats.Call(prev)
	return f
}

// formatName returns "" for predefined formats, which have no name.
func formatName(format uintptr) string {
	buf := make([]uint16, 256)
	n, _, _ := procGetClipboardFormatNameW.Call(format, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if n == 0 {
		return ""
	}
	return syscall.UTF16ToString(buf[:n])
}

func readGlobal(format uintptr) ([]byte, error) {
	h, _, callErr := procGetClipboardData.Call(format)
	if h == 0 {
		return nil, fmt.Errorf("failed to get clipboard data: %w", callErr)
	}
	size, _, _ := procGlobalSize.Call(h)
	ptr, _, callErr := procGlobalLock.Call(h)
	if ptr == 0 {
		return nil, fmt.Errorf("failed to lock clipboard memory: %w", callErr)
	}
	defer procGlobalUnlock.Call(h)

	data := make([]byte, size)
	copy(data, unsafe.Slice((*byte)(unsafe.Pointer(ptr)), size))
	return data, nil
}

func allocGlobal(data []byte) (uintptr, error) {
	h, _, callErr := procGlobalAlloc.Call(gmemMoveable, uintptr(len(data)))
	if h == 0 {
		return 0, fmt.Errorf("failed to allocate memory: %w", callErr)
	}
	ptr, _, callErr := procGlobalLock.Call(h)
	if ptr == 0 {
		procGlobalFree.Call(h)
		return 0, fmt.Errorf("failed to lock memory: %w", callErr)
	}
	copy(unsafe.Slice((*byte)(unsafe.Pointer(ptr)), len(data)), data)
	procGlobalUnlock.Call(h)
	return h, nil
}
