// Package ml wraps the externally trained subscription model and merchant
// encoder behind two narrow capabilities. The service treats both as black
// boxes: any concrete artifact format stays behind these interfaces so tests
// can substitute stubs.
package ml

// FeatureVector is the fixed feature schema the subscription model was
// trained on: {merchant_code, year, month, day, amount}.
type FeatureVector struct {
	MerchantCode int
	Year         int
	Month        int
	Day          int
	Amount       float64
}

// Classifier labels a single feature vector as subscription-like or not.
type Classifier interface {
	Predict(f FeatureVector) (bool, error)
}

// Encoder maps a merchant name to its integer code from the fixed vocabulary
// learned at training time. Names outside the vocabulary return a ModelError
// with code UNKNOWN_MERCHANT.
type Encoder interface {
	Encode(merchant string) (int, error)
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(f FeatureVector) (bool, error)

func (fn ClassifierFunc) Predict(f FeatureVector) (bool, error) { return fn(f) }

// EncoderFunc adapts a function to the Encoder interface.
type EncoderFunc func(merchant string) (int, error)

func (fn EncoderFunc) Encode(merchant string) (int, error) { return fn(merchant) }
