package render

// Band is the aggregate of one contiguous run of frequency bins.
type Band struct {
	Sum   int
	Count int
	Mean  float64 // average magnitude, 0..255
	Level float64 // Mean / 255
}

// AggregateBands partitions the bins covered by splits into len(splits)-1
// bands and writes them into out, which must have room for that many. A bin at
// normalised position i/(len-1) belongs to the first band whose upper split is
// strictly greater. Bins before splits[0] or at and past the last split are
// left out, except that a last split of 1 keeps the final bin. The returned
// overall mean level covers the whole snapshot.
func AggregateBands(freq []byte, splits []float64, out []Band) float64 {
	n := len(splits) - 1
	if n <= 0 {
		return 0
	}
	out = out[:n]
	for b := range out {
		out[b] = Band{}
	}
	if len(freq) == 0 {
		return 0
	}

	last := float64(len(freq) - 1)
	lo, hi := splits[0], splits[n]
	total := 0
	b := 0
	for i, v := range freq {
		total += int(v)
		pos := 0.0
		if last > 0 {
			pos = float64(i) / last
		}
		if pos < lo || pos > hi || (pos == hi && hi < 1) {
			continue
		}
		// positions are ascending, so the band index only ever moves forward
		for b < n-1 && pos >= splits[b+1] {
			b++
		}
		out[b].Sum += int(v)
		out[b].Count++
	}

	for i := range out {
		if out[i].Count == 0 {
			continue
		}
		out[i].Mean = float64(out[i].Sum) / float64(out[i].Count)
		out[i].Level = out[i].Mean / 255
	}
	return float64(total) / float64(len(freq)) / 255
}
