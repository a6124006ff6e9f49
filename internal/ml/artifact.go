package ml

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// FeatureWeights holds one logistic-regression coefficient per feature.
type FeatureWeights struct {
	MerchantCode float64 `json:"merchant_code"`
	Year         float64 `json:"year"`
	Month        float64 `json:"month"`
	Day          float64 `json:"day"`
	Amount       float64 `json:"amount"`
}

// Artifact is the serialized subscription model: logistic-regression weights
// over the fixed feature schema plus the merchant vocabulary learned at
// training time. It is produced by the offline training job and never
// retrained at request time.
type Artifact struct {
	Version    int            `json:"version"`
	TrainedAt  string         `json:"trained_at,omitempty"`
	Bias       float64        `json:"bias"`
	Weights    FeatureWeights `json:"weights"`
	Vocabulary map[string]int `json:"vocabulary"`
}

// LoadArtifact decodes and validates a model artifact.
func LoadArtifact(r io.Reader) (*Artifact, error) {
	var a Artifact
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return nil, &ModelError{Code: ErrBadArtifact, Message: "decode model artifact", Cause: err}
	}
	if len(a.Vocabulary) == 0 {
		return nil, &ModelError{Code: ErrBadArtifact, Message: "model artifact has an empty merchant vocabulary"}
	}
	return &a, nil
}

// LoadArtifactFile loads a model artifact from a local path.
func LoadArtifactFile(path string) (*Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ModelError{Code: ErrModelUnavailable, Message: fmt.Sprintf("open model artifact %s", path), Cause: err}
	}
	defer f.Close()
	return LoadArtifact(f)
}

// Classifier returns the logistic classifier backed by this artifact.
// The decision rule is sigmoid(w·x + b) >= 0.5, i.e. w·x + b >= 0.
func (a *Artifact) Classifier() Classifier {
	return ClassifierFunc(func(f FeatureVector) (bool, error) {
		score := a.Bias +
			a.Weights.MerchantCode*float64(f.MerchantCode) +
			a.Weights.Year*float64(f.Year) +
			a.Weights.Month*float64(f.Month) +
			a.Weights.Day*float64(f.Day) +
			a.Weights.Amount*f.Amount
		return score >= 0, nil
	})
}

// Encoder returns the fixed-vocabulary merchant encoder backed by this
// artifact. Lookup is exact-match, mirroring the label encoding used in
// training.
func (a *Artifact) Encoder() Encoder {
	return EncoderFunc(func(merchant string) (int, error) {
		code, ok := a.Vocabulary[merchant]
		if !ok {
			return 0, &ModelError{
				Code:     ErrUnknownMerchant,
				Message:  fmt.Sprintf("merchant %q is not in the training vocabulary", merchant),
				Merchant: merchant,
			}
		}
		return code, nil
	})
}
