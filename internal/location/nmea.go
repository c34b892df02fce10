package location

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	nmea "github.com/adrianmo/go-nmea"
	serial "github.com/jacobsa/go-serial/serial"

	"github.com/i474232898/hajj-kiosk/internal/qibla"
)

// ErrStreamEnded is returned when an NMEA stream reaches EOF.
var ErrStreamEnded = errors.New("nmea stream ended")

// ParseSentence extracts a coordinate from an RMC or GGA sentence. ok is
// false for other sentence types and for sentences without a valid fix.
func ParseSentence(line string) (qibla.Coordinate, bool, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "$") {
		return qibla.Coordinate{}, false, nil
	}
	sentence, err := nmea.Parse(line)
	if err != nil {
		return qibla.Coordinate{}, false, err
	}

	switch sentence.DataType() {
	case nmea.TypeRMC:
		m := sentence.(nmea.RMC)
		if m.Validity != nmea.ValidRMC {
			return qibla.Coordinate{}, false, nil
		}
		return qibla.Coordinate{Latitude: m.Latitude, Longitude: m.Longitude}, true, nil
	case nmea.TypeGGA:
		m := sentence.(nmea.GGA)
		if m.FixQuality == nmea.Invalid {
			return qibla.Coordinate{}, false, nil
		}
		return qibla.Coordinate{Latitude: m.Latitude, Longitude: m.Longitude}, true, nil
	default:
		return qibla.Coordinate{}, false, nil
	}
}

// NMEASource reads NMEA 0183 sentences from a receiver.
type NMEASource struct {
	Reader io.Reader
}

// Watch sends a coordinate for every valid fix. If Reader is an io.Closer it
// is closed when ctx is done so a blocked read returns.
func (s *NMEASource) Watch(ctx context.Context, out chan<- qibla.Coordinate) error {
	if c, ok := s.Reader.(io.Closer); ok {
		stop := context.AfterFunc(ctx, func() { _ = c.Close() })
		defer stop()
	}

	scanner := bufio.NewScanner(s.Reader)
	for scanner.Scan() {
		coord, ok, err := ParseSentence(scanner.Text())
		if err != nil {
			// Partial sentences are common right after the port opens.
			continue
		}
		if !ok {
			continue
		}
		select {
		case out <- coord:
		case <-ctx.Done():
			return nil
		}
	}
	if ctx.Err() != nil {
		return nil
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read nmea: %w", err)
	}
	return ErrStreamEnded
}

// SerialSource is an NMEASource on a serial port.
type SerialSource struct {
	PortName string
	BaudRate uint
}

// Watch opens the port and streams fixes until ctx is done.
func (s *SerialSource) Watch(ctx context.Context, out chan<- qibla.Coordinate) error {
	port, err := OpenSerial(s.PortName, s.BaudRate)
	if err != nil {
		return err
	}
	defer port.Close()
	log.Printf("location: GPS serial port opened on %s at %d baud", s.PortName, s.BaudRate)

	src := &NMEASource{Reader: port}
	return src.Watch(ctx, out)
}

// OpenSerial opens an 8N1 serial port.
func OpenSerial(portName string, baudRate uint) (io.ReadWriteCloser, error) {
	if baudRate == 0 {
		baudRate = 9600
	}
	port, err := serial.Open(serial.OpenOptions{
		PortName:        portName,
		BaudRate:        baudRate,
		DataBits:        8,
		StopBits:        1,
		MinimumReadSize: 1,
		ParityMode:      serial.PARITY_NONE,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", portName, err)
	}
	return port, nil
}
