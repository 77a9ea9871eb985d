package util

import (
	"bytes"
	"encoding/json"

	jsonpatchv5 "github.com/evanphx/json-patch/v5"
	jd "github.com/josephburnett/jd/lib"
	"github.com/pkg/errors"
)

// DiffJSON compares the JSON forms of a and b. When they differ, diff holds
// the jd rendering of the changes from a to b.
func DiffJSON(a, b interface{}) (equal bool, diff string, err error) {
	left, right, err := marshalPair(a, b)
	if err != nil {
		return false, "", err
	}

	if bytes.Equal(left, right) {
		return true, "", nil
	}

	ja, err := jd.ReadJsonString(string(left))
	if err != nil {
		return false, "", errors.Wrap(err, "failed to read left document")
	}

	jb, err := jd.ReadJsonString(string(right))
	if err != nil {
		return false, "", errors.Wrap(err, "failed to read right document")
	}

	d := ja.Diff(jb)

	return len(d) == 0, d.Render(), nil
}

// MergeJSON applies patch to base as a JSON merge patch and decodes the
// result into out. Null values in patch remove keys.
func MergeJSON(base, patch, out interface{}) error {
	left, right, err := marshalPair(base, patch)
	if err != nil {
		return err
	}

	merged, err := jsonpatchv5.MergePatch(left, right)
	if err != nil {
		return errors.Wrap(err, "failed to apply merge patch")
	}

	return errors.Wrap(json.Unmarshal(merged, out), "failed to decode merged document")
}

func marshalPair(a, b interface{}) ([]byte, []byte, error) {
	left, err := json.Marshal(a)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to encode left document")
	}

	right, err := json.Marshal(b)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to encode right document")
	}

	return left, right, nil
}
