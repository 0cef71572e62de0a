package bitmap

import "github.com/launchdarkly/go-jsonstream/v3/jwriter"

// WriteJSON populates a json object with the size, the number of used bits and every free run
func (b *Bitmap) WriteJSON(json jwriter.ObjectState) {
	json.Name("Size").Int(b.size)
	json.Name("UsedBits").Int(b.CountSet())

	runs := json.Name("FreeRuns").Array()
	defer runs.End()

	_ = b.VisitRuns(func(start, length int, used bool) error {
		if used {
			return nil
		}

		obj := runs.Object()
		defer obj.End()

		obj.Name("Start").Int(start)
		obj.Name("Length").Int(length)
		return nil
	})
}
