package media

import (
	"encoding/binary"
	"fmt"
)

// CombineWAV concatenates same-format wav payloads into one file: the first
// part's header with its size fields rewritten, followed by every part's
// sample data in order.
func CombineWAV(parts [][]byte) ([]byte, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("no wav parts to combine")
	}
	if len(parts) == 1 {
		return parts[0], nil
	}

	var samples []byte
	for i, part := range parts {
		data, err := findWavChunk(part, "data")
		if err != nil {
			return nil, fmt.Errorf("part %d: %w", i, err)
		}
		samples = append(samples, data...)
	}

	header := make([]byte, 44)
	copy(header, parts[0][:44])
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+len(samples)))
	binary.LittleEndian.PutUint32(header[40:44], uint32(len(samples)))
	return append(header, samples...), nil
}

// WrapPCM puts a wav header around raw little-endian PCM samples, as
// delivered by backends that return bare audio frames.
func WrapPCM(pcm []byte, sampleRate, channels, bitsPerSample int) []byte {
	blockAlign := channels * bitsPerSample / 8
	byteRate := sampleRate * blockAlign

	header := make([]byte, 44)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+len(pcm)))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(header[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(header[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:36], uint16(bitsPerSample))
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(len(pcm)))
	return append(header, pcm...)
}

// findWavChunk walks the RIFF chunk list and returns the named chunk's
// payload.
func findWavChunk(data []byte, name string) ([]byte, error) {
	if len(data) < 12 || string(data[:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("not a wav file")
	}
	pos := 12
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		if pos+8+size > len(data) {
			size = len(data) - pos - 8
		}
		if id == name {
			return data[pos+8 : pos+8+size], nil
		}
		pos += 8 + size
		if size%2 == 1 { // RIFF chunks are word aligned
			pos++
		}
	}
	return nil, fmt.Errorf("wav chunk %q not found", name)
}
