package fbdev

import (
	"os"
	"unsafe"

	"golang.org/x/sys/unix"

	"codeberg.org/voss/neuroscope/internal/errors"
	"codeberg.org/voss/neuroscope/internal/logger"
)

// Framebuffer ioctl request numbers
const (
	fbioGetVScreenInfo = 0x4600
	fbioGetFScreenInfo = 0x4602
)

// The geometry ioctls fill raw control blocks addressed as 32-bit words.
// The fixed-info block is allocated at the kernel's full struct size even
// though only the leading words are consumed.
const (
	varInfoWords = 40
	fixInfoWords = 20

	varWidth        = 0
	varHeight       = 1
	varBitsPerPixel = 6
	fixLineLength   = 7
)

// Framebuffer owns a display's pixel memory. Opened devices map the memory
// shared read/write; buffers created with NewBuffer live on the heap and
// have no backing device.
type Framebuffer struct {
	geo  Geometry
	pix  []byte
	file *os.File
}

// Open opens the framebuffer device, queries its geometry and maps its
// pixel memory. Callers must treat any error as fatal for rendering and
// must Close the returned framebuffer on every exit path.
func Open(device string) (*Framebuffer, error) {
	file, err := os.OpenFile(device, os.O_RDWR, 0)
	if err != nil {
		return nil, errors.Wrap(ErrOpenFailed, err)
	}

	fd := int(file.Fd())

	var vinfo [varInfoWords]uint32
	if err := ioctlWords(fd, fbioGetVScreenInfo, vinfo[:]); err != nil {
		file.Close()
		return nil, errors.Wrap(ErrGeometryQuery, err)
	}

	var finfo [fixInfoWords]uint32
	if err := ioctlWords(fd, fbioGetFScreenInfo, finfo[:]); err != nil {
		file.Close()
		return nil, errors.Wrap(ErrGeometryQuery, err)
	}

	geo := Geometry{
		Width:        int(vinfo[varWidth]),
		Height:       int(vinfo[varHeight]),
		BitsPerPixel: int(vinfo[varBitsPerPixel]),
		Stride:       int(finfo[fixLineLength]),
	}

	if err := geo.Validate(); err != nil {
		file.Close()
		return nil, err
	}
	if geo.BitsPerPixel != 32 {
		logger.Warn().Msgf("Display reports %dbpp, expected 32: colors may render incorrectly", geo.BitsPerPixel)
	}

	pix, err := unix.Mmap(fd, 0, geo.Stride*geo.Height, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		file.Close()
		return nil, errors.Wrap(ErrMapFailed, err)
	}

	logger.Info().Msgf("Framebuffer opened: %dx%d @ %dbpp", geo.Width, geo.Height, geo.BitsPerPixel)

	return &Framebuffer{geo: geo, pix: pix, file: file}, nil
}

// NewBuffer returns an in-memory framebuffer with the same pixel layout as
// a mapped device. A zero stride defaults to the packed width.
func NewBuffer(geo Geometry) *Framebuffer {
	if geo.Stride == 0 {
		geo.Stride = geo.Width * 4
	}
	if geo.BitsPerPixel == 0 {
		geo.BitsPerPixel = 32
	}

	return &Framebuffer{geo: geo, pix: make([]byte, geo.Stride*geo.Height)}
}

// Geometry returns the display geometry captured at open time.
func (fb *Framebuffer) Geometry() Geometry {
	return fb.geo
}

// Pix exposes the raw pixel memory. The layout is rows of Stride bytes,
// 4 bytes per pixel in blue, green, red, alpha order.
func (fb *Framebuffer) Pix() []byte {
	return fb.pix
}

// Close unmaps the pixel memory and closes the device. It is idempotent
// and safe to call on in-memory buffers.
func (fb *Framebuffer) Close() error {
	var firstErr error

	if fb.pix != nil {
		if fb.file != nil {
			if err := unix.Munmap(fb.pix); err != nil {
				firstErr = errors.Wrap(ErrUnmapFailed, err)
			}
		}
		fb.pix = nil
	}

	if fb.file != nil {
		if err := fb.file.Close(); err != nil && firstErr == nil {
			firstErr = errors.Wrap(ErrCloseFailed, err)
		}
		fb.file = nil
	}

	return firstErr
}

func ioctlWords(fd int, req uint, block []uint32) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(req), uintptr(unsafe.Pointer(&block[0])))
	if errno != 0 {
		return errno
	}

	return nil
}
