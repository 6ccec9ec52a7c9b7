// Package predictor wraps the pre-trained grade regression model.
package predictor

import (
	"bytes"
	"encoding/json"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrBadNumericInput  = errors.New("bad numeric input")
	ErrFeatureMismatch  = errors.New("feature count does not match model")
	ErrInvalidModelFile = errors.New("invalid model file")
)

// Model predicts a final grade for a single feature vector.
// Implementations must be safe for concurrent use.
type Model interface {
	Predict(features []float64) (float64, error)
}

// LinearModel is an ordinary least squares model exported from training
// as JSON.
type LinearModel struct {
	Features     []string  `json:"features"`
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
}

var _ Model = (*LinearModel)(nil)

// Predict returns intercept + coefficients·features for a single sample
func (m *LinearModel) Predict(features []float64) (float64, error) {
	if len(features) != len(m.Coefficients) {
		return 0, errors.Wrapf(ErrFeatureMismatch, "got %d features, want %d", len(features), len(m.Coefficients))
	}
	y := m.Intercept
	for i, x := range features {
		y += m.Coefficients[i] * x
	}
	return y, nil
}

// ReadLinearModel decodes a model artifact
func ReadLinearModel(r io.Reader) (*LinearModel, error) {
	var m LinearModel
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		return nil, errors.Wrap(ErrInvalidModelFile, err.Error())
	}
	if len(m.Coefficients) == 0 {
		return nil, errors.Wrap(ErrInvalidModelFile, "no coefficients")
	}
	if len(m.Features) != 0 && len(m.Features) != len(m.Coefficients) {
		return nil, errors.Wrapf(ErrInvalidModelFile, "%d feature names for %d coefficients", len(m.Features), len(m.Coefficients))
	}
	return &m, nil
}

// LoadLinearModel reads the model artifact at path. It is called once at
// startup; the returned model is shared read-only between requests.
func LoadLinearModel(path string) (*LinearModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "predictor: read model %s", path)
	}
	m, err := ReadLinearModel(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "predictor: load model %s", path)
	}
	return m, nil
}

// ParseFeatures turns an url-encoded form body into a feature vector with one
// value per field: the first value of each field name, in the order the names
// first appear in the body. Later repeats of a name are ignored. Field names
// are not checked, so the form's field order has to match the model's
// feature order.
func ParseFeatures(body string) ([]float64, error) {
	features := []float64{}
	seen := make(map[string]bool)
	for _, pair := range strings.Split(body, "&") {
		if pair == "" {
			continue
		}
		rawName, raw, _ := strings.Cut(pair, "=")
		name, err := url.QueryUnescape(rawName)
		if err != nil {
			return nil, errors.Wrapf(ErrBadNumericInput, "decode %q: %v", pair, err)
		}
		if seen[name] {
			continue
		}
		seen[name] = true

		value, err := url.QueryUnescape(raw)
		if err != nil {
			return nil, errors.Wrapf(ErrBadNumericInput, "decode %q: %v", pair, err)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, errors.Wrapf(ErrBadNumericInput, "parse %q", value)
		}
		features = append(features, f)
	}
	return features, nil
}

// Round rounds to two decimal places from the exact binary value, with exact
// ties going to the even digit (round(-0.125, 2) == -0.12).
func Round(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		return v
	}
	return r
}

// FormatValue prints a float the way the dashboard always has: shortest
// representation, but never without a decimal part ("15.0", "15.5", "15.46").
func FormatValue(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}

// PredictionText renders the dashboard message for a raw model output
func PredictionText(output float64) string {
	return "Predicted Final Grade (out of 20): " + FormatValue(Round(output))
}
