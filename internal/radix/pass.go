package radix

// histogram counts the bucket of every record's key byte. For width 2 the key
// is the second word of each record.
func histogram(src []uint64, width, n int, shift uint, flip byte, counts *[256]int) {
	if width == 1 {
		for _, k := range src[:n] {
			counts[byte(k>>shift)^flip]++
		}
		return
	}
	for i := 1; i < 2*n; i += 2 {
		counts[byte(src[i]>>shift)^flip]++
	}
}

// uniform reports whether a single bucket holds all n records. Scattering
// such a pass would only copy the buffer, so it can be skipped. An empty
// input is trivially uniform.
func uniform(counts *[256]int, n int) bool {
	if n == 0 {
		return true
	}
	for _, c := range counts {
		if c == n {
			return true
		}
		if c != 0 {
			return false
		}
	}
	return false
}

// offsetsAscending turns counts into exclusive prefix sums, bucket 0 first.
func offsetsAscending(counts *[256]int) {
	sum := 0
	for d := range counts {
		c := counts[d]
		counts[d] = sum
		sum += c
	}
}

// offsetsDescending turns counts into exclusive prefix sums, bucket 255 first.
func offsetsDescending(counts *[256]int) {
	sum := 0
	for d := 255; d >= 0; d-- {
		c := counts[d]
		counts[d] = sum
		sum += c
	}
}

func scatterKeys(src, dst []uint64, n int, shift uint, flip byte, offsets *[256]int) {
	for _, k := range src[:n] {
		d := byte(k>>shift) ^ flip
		dst[offsets[d]] = k
		offsets[d]++
	}
}

// scatterRecords moves whole (pointer, prefix) records.
func scatterRecords(src, dst []uint64, n int, shift uint, flip byte, offsets *[256]int) {
	for i := 0; i < 2*n; i += 2 {
		ptr, k := src[i], src[i+1]
		d := byte(k>>shift) ^ flip
		j := 2 * offsets[d]
		dst[j] = ptr
		dst[j+1] = k
		offsets[d]++
	}
}
