package stocargo

// Converter rewrites markup embedded in record fields for display.
type Converter interface {
	// Convert transforms a field value containing wiki HTML.
	// Implementations strip the markup or translate it to another format.
	Convert(html string) (string, error)
}

// ConvertFunc adapts a function to the Converter interface.
type ConvertFunc func(html string) (string, error)

// Convert calls f(html).
func (f ConvertFunc) Convert(html string) (string, error) {
	return f(html)
}

// convert applies conv to s, leaving s unchanged if conv is nil or fails.
func convert(conv Converter, s string) string {
	if conv == nil || s == "" {
		return s
	}
	out, err := conv.Convert(s)
	if err != nil {
		return s
	}
	return out
}
