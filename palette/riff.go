package palette

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"golang.org/x/image/riff"

	"pixelart/quantize"
)

/*
typedef struct tagLOGPALETTE {
  WORD         palVersion;
  WORD         palNumEntries;
  PALETTEENTRY palPalEntry[1];
} LOGPALETTE;

typedef struct tagPALETTEENTRY {
  BYTE peRed;
  BYTE peGreen;
  BYTE peBlue;
  BYTE peFlags;
} PALETTEENTRY;
*/

const palVersion = 0x0300

var (
	riffType = riff.FourCC{'R', 'I', 'F', 'F'}
	palType  = riff.FourCC{'P', 'A', 'L', ' '}
	dataType = riff.FourCC{'d', 'a', 't', 'a'}
)

// ReadFrom reads every palette of a RIFF PAL document, descending into
// PAL lists.
func ReadFrom(r io.Reader) ([]quantize.Palette, error) {
	formType, rd, err := riff.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not open RIFF stream: %w", err)
	} else if formType != palType {
		return nil, fmt.Errorf("unsupported RIFF content type: %q", string(formType[:]))
	}

	return readPalettes(rd, string(formType[:]))
}

func readPalettes(r *riff.Reader, ident string) ([]quantize.Palette, error) {
	var res []quantize.Palette

	for {
		id, size, data, err := r.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return res, nil
			}
			return res, fmt.Errorf("could not read chunk %q#%d: %w", ident, len(res), err)
		}

		switch id {
		case riff.LIST:
			listType, list, err := riff.NewListReader(size, data)
			if err != nil {
				return res, fmt.Errorf("could not read list from chunk %q#%d: %w", ident, len(res), err)
			} else if listType != palType {
				return res, fmt.Errorf("chunk %q#%d unsupported list type: %q", ident, len(res), string(listType[:]))
			}

			listRes, err := readPalettes(list, fmt.Sprintf("%s%d.%s", ident, len(res), listType[:]))
			res = append(res, listRes...)
			if err != nil {
				return res, err
			}
		case dataType:
			pal, err := readPalette(data, fmt.Sprintf("%s%d", ident, len(res)))
			if err != nil {
				return res, err
			}
			res = append(res, pal)
		default:
			return res, fmt.Errorf("unsupported chunk type in %q#%d: %q", ident, len(res), string(id[:]))
		}
	}
}

func readPalette(r io.Reader, ident string) (quantize.Palette, error) {
	var head [4]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return nil, fmt.Errorf("could not read header of chunk %s: %w", ident, err)
	}

	if ver := binary.LittleEndian.Uint16(head[:2]); ver != palVersion {
		return nil, fmt.Errorf("unsupported palette version in chunk %s: %#04x", ident, ver)
	}

	count := binary.LittleEndian.Uint16(head[2:])
	pal := make(quantize.Palette, 0, count)
	var entry [4]byte
	for i := range count {
		if _, err := io.ReadFull(r, entry[:]); err != nil {
			return pal, fmt.Errorf("could not read color %d/%d from chunk %s: %w", i, count, ident, err)
		}
		pal = append(pal, quantize.RGB{R: entry[0], G: entry[1], B: entry[2]})
	}

	return pal, nil
}

// WriteTo writes pals as one RIFF PAL document with a data chunk per
// palette. It returns the number of bytes written.
func WriteTo(w io.Writer, pals ...quantize.Palette) (int64, error) {
	size := 4
	for _, pal := range pals {
		size += 8 + 4 + len(pal)*4 // chunk id + chunk size, palVersion + palNumEntries, 4 bytes/color
	}

	cw := &countingWriter{w: w}
	head := make([]byte, 0, 12)
	head = append(head, riffType[:]...)
	head = binary.LittleEndian.AppendUint32(head, uint32(size))
	head = append(head, palType[:]...)
	if _, err := cw.Write(head); err != nil {
		return cw.n, fmt.Errorf("could not write RIFF header: %w", err)
	}

	for i, pal := range pals {
		if err := writePalette(cw, pal); err != nil {
			return cw.n, fmt.Errorf("could not write chunk %d: %w", i, err)
		}
	}

	return cw.n, nil
}

func writePalette(w io.Writer, pal quantize.Palette) error {
	if len(pal) > 0xFFFF {
		return fmt.Errorf("too many colors: %d", len(pal))
	}

	buf := make([]byte, 0, 12+len(pal)*4)
	buf = append(buf, dataType[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(4+len(pal)*4))
	buf = binary.LittleEndian.AppendUint16(buf, palVersion)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(pal)))
	for _, c := range pal {
		buf = append(buf, c.R, c.G, c.B, 0x00)
	}

	_, err := w.Write(buf)
	return err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(b []byte) (int, error) {
	n, err := cw.w.Write(b)
	cw.n += int64(n)
	if err == nil && n != len(b) {
		err = fmt.Errorf("wrote only %d/%d bytes", n, len(b))
	}
	return n, err
}
