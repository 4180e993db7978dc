// ABOUTME: Planar to interleaved sample conversion
// ABOUTME: Writes channel-major frame samples into a frame-major output buffer
package playback

// Interleave copies count samples per channel, starting at offset, from the
// channel-major samples into dst so that dst[i*C+j] = samples[j][offset+i].
//
// count is reduced to what both dst and every channel can hold. It returns
// the number of values written to dst.
func Interleave(dst []float32, samples [][]float32, offset, count int) int {
	channels := len(samples)
	if channels == 0 || offset < 0 || count <= 0 {
		return 0
	}

	count = min(count, len(dst)/channels)
	for _, ch := range samples {
		count = min(count, len(ch)-offset)
	}
	if count <= 0 {
		return 0
	}

	for j, ch := range samples {
		src := ch[offset : offset+count]
		for i, s := range src {
			dst[i*channels+j] = s
		}
	}
	return count * channels
}
