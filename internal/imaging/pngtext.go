package imaging

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"image/png"
	"sort"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// EncodePNG encodes the image as 8-bit PNG and embeds each metadata entry
// as a tEXt chunk, the way the original tool stores prompt and workflow
// info alongside the pixels. Chunks are inserted right after IHDR in
// sorted key order so output is deterministic.
func EncodePNG(img Image, meta map[string]string) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.DefaultCompression}
	if err := enc.Encode(&buf, img.ToNRGBA()); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	if len(meta) == 0 {
		return buf.Bytes(), nil
	}
	return insertText(buf.Bytes(), meta)
}

// insertText splices tEXt chunks into encoded PNG bytes after the IHDR
// chunk.
func insertText(data []byte, meta map[string]string) ([]byte, error) {
	if !bytes.HasPrefix(data, pngSignature) {
		return nil, errors.New("not a png")
	}
	// IHDR is always the first chunk: 4 length + 4 type + 13 data + 4 crc.
	ihdrEnd := len(pngSignature) + 4 + 4 + 13 + 4
	if len(data) < ihdrEnd {
		return nil, errors.New("truncated png")
	}

	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out bytes.Buffer
	out.Write(data[:ihdrEnd])
	for _, k := range keys {
		if err := writeTextChunk(&out, k, meta[k]); err != nil {
			return nil, err
		}
	}
	out.Write(data[ihdrEnd:])
	return out.Bytes(), nil
}

func writeTextChunk(out *bytes.Buffer, keyword, text string) error {
	if keyword == "" || len(keyword) > 79 {
		return fmt.Errorf("invalid tEXt keyword %q", keyword)
	}
	payload := make([]byte, 0, len(keyword)+1+len(text))
	payload = append(payload, keyword...)
	payload = append(payload, 0)
	payload = append(payload, text...)

	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[:4], uint32(len(payload)))
	copy(hdr[4:], "tEXt")
	out.Write(hdr[:])
	out.Write(payload)

	crc := crc32.NewIEEE()
	crc.Write(hdr[4:])
	crc.Write(payload)
	var sum [4]byte
	binary.BigEndian.PutUint32(sum[:], crc.Sum32())
	out.Write(sum[:])
	return nil
}

// ExtractText walks the chunk stream and collects tEXt entries.
func ExtractText(data []byte) (map[string]string, error) {
	if !bytes.HasPrefix(data, pngSignature) {
		return nil, errors.New("not a png")
	}
	text := map[string]string{}
	pos := len(pngSignature)
	for pos+8 <= len(data) {
		length := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		typ := string(data[pos+4 : pos+8])
		end := pos + 8 + length
		if end+4 > len(data) {
			return nil, errors.New("truncated chunk")
		}
		if typ == "tEXt" {
			payload := data[pos+8 : end]
			if i := bytes.IndexByte(payload, 0); i >= 0 {
				text[string(payload[:i])] = string(payload[i+1:])
			}
		}
		pos = end + 4
		if typ == "IEND" {
			break
		}
	}
	return text, nil
}
