//go:build darwin
// +build darwin

package platform

/*
#cgo CFLAGS: -x objective-c -Wno-deprecated-declarations
#cgo LDFLAGS: -framework Cocoa -framework CoreServices
#import <Cocoa/Cocoa.h>
#import <CoreServices/CoreServices.h>
#include <stdlib.h>
#include <string.h>

static char *fmclip_strdup(NSString *s) {
	if (s == nil) return NULL;
	return strdup([s UTF8String]);
}

static int fmclip_type_count(void) {
	@autoreleasepool {
		NSArray *items = [[NSPasteboard generalPasteboard] pasteboardItems];
		if ([items count] == 0) return 0;
		return (int)[[[items objectAtIndex:0] types] count];
	}
}

static char *fmclip_type_at(int i) {
	@autoreleasepool {
		NSArray *items = [[NSPasteboard generalPasteboard] pasteboardItems];
		if ([items count] == 0) return NULL;
		NSArray *types = [[items objectAtIndex:0] types];
		if (i < 0 || i >= (int)[types count]) return NULL;
		return fmclip_strdup([types objectAtIndex:i]);
	}
}

static char *fmclip_ostype(const char *uti) {
	@autoreleasepool {
		CFStringRef ref = CFStringCreateWithCString(NULL, uti, kCFStringEncodingUTF8);
		CFStringRef tag = UTTypeCopyPreferredTagWithClass(ref, kUTTagClassOSType);
		CFRelease(ref);
		if (tag == NULL) return NULL;
		char *out = fmclip_strdup((__bridge NSString *)tag);
		CFRelease(tag);
		return out;
	}
}

static void *fmclip_data(const char *uti, int *length) {
	@autoreleasepool {
		NSString *type = [NSString stringWithUTF8String:uti];
		NSData *data = [[NSPasteboard generalPasteboard] dataForType:type];
		*length = 0;
		if (data == nil) return NULL;
		*length = (int)[data length];
		void *buf = malloc([data length] + 1);
		memcpy(buf, [data bytes], [data length]);
		return buf;
	}
}

static int fmclip_write(const char *ostype, const void *buf, int length) {
	@autoreleasepool {
		CFStringRef tag = CFStringCreateWithCString(NULL, ostype, kCFStringEncodingUTF8);
		CFStringRef uti = UTTypeCreatePreferredIdentifierForTag(kUTTagClassOSType, tag, kUTTypeData);
		CFRelease(tag);
		if (uti == NULL) return 0;
		NSString *type = [NSString stringWithString:(__bridge NSString *)uti];
		CFRelease(uti);

		NSPasteboard *pb = [NSPasteboard generalPasteboard];
		[pb declareTypes:[NSArray arrayWithObject:type] owner:nil];
		NSData *data = [NSData dataWithBytes:buf length:length];
		return [pb setData:data forType:type] ? 1 : 0;
	}
}
*/
import "C"

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"go.uber.org/zap"

	"github.com/berrythewa/fmclip/internal/config"
	"github.com/berrythewa/fmclip/internal/types"
)

// DarwinClipboard talks to the general pasteboard. Definitions travel as
// dynamic UTIs derived from their four-character OSType.
type DarwinClipboard struct {
	logger *zap.Logger
	mu     sync.Mutex
}

// NewDarwinClipboard creates the pasteboard backend.
func NewDarwinClipboard(opts Options) (Clipboard, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DarwinClipboard{logger: logger}, nil
}

func (c *DarwinClipboard) Name() string { return config.BackendNative }

// ReadTyped implements Clipboard.
func (c *DarwinClipboard) ReadTyped(ctx context.Context) (*types.ClipboardContent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	n := int(C.fmclip_type_count())
	if n == 0 {
		return nil, nil
	}

	utis := make([]string, 0, n)
	tags := make(map[string]string, n)
	for i := 0; i < n; i++ {
		cuti := C.fmclip_type_at(C.int(i))
		if cuti == nil {
			continue
		}
		uti := C.GoString(cuti)
		utis = append(utis, uti)

		if ctag := C.fmclip_ostype(cuti); ctag != nil {
			tags[uti] = C.GoString(ctag)
			C.free(unsafe.Pointer(ctag))
		}
		C.free(unsafe.Pointer(cuti))
	}

	i, tag := pickTag(utis, func(uti string) (string, bool) {
		t, ok := tags[uti]
		return t, ok && len(t) == 4
	})
	if i < 0 {
		c.logger.Debug("No OSType on the pasteboard", zap.Strings("types", utis))
		return types.NewClipboardContent("", nil), nil
	}

	data, err := readPasteboard(utis[i])
	if err != nil {
		return nil, err
	}
	return types.NewClipboardContent(tag, data), nil
}

// WriteTyped implements Clipboard.
func (c *DarwinClipboard) WriteTyped(ctx context.Context, content *types.ClipboardContent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(content.Tag) != 4 {
		return fmt.Errorf("invalid type tag %q", content.Tag)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	ctag := C.CString(content.Tag)
	defer C.free(unsafe.Pointer(ctag))

	buf := C.CBytes(content.Data)
	defer C.free(buf)

	if C.fmclip_write(ctag, buf, C.int(len(content.Data))) == 0 {
		return errors.New("pasteboard rejected the data")
	}
	return nil
}

func (c *DarwinClipboard) Close() error { return nil }

func readPasteboard(uti string) ([]byte, error) {
	cuti := C.CString(uti)
	defer C.free(unsafe.Pointer(cuti))

	var length C.int
	buf := C.fmclip_data(cuti, &length)
	if buf == nil {
		return nil, fmt.Errorf("no data for pasteboard type %s", uti)
	}
	defer C.free(buf)
	return C.GoBytes(buf, length), nil
}
