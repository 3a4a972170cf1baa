package petmed

import (
	_ "embed"
	"encoding/json"
)

// Built-in sample datasets for offline use. When every candidate endpoint
// fails and the local cache is empty, searches fall back to these.

//go:embed files/sample_medicines.json
var sampleMedicinesJSON []byte

//go:embed files/sample_stores.json
var sampleStoresJSON []byte

// SampleMedicines returns the embedded offline medicine dataset.
func SampleMedicines() []Medicine {
	var meds []Medicine
	// The embedded data is fixed at build time; a decode failure is a bug.
	if err := json.Unmarshal(sampleMedicinesJSON, &meds); err != nil {
		panic("petmed: invalid embedded sample medicines: " + err.Error())
	}
	return meds
}

// SampleStoreListings returns the embedded offline store-listing dataset.
func SampleStoreListings() []StoreListing {
	var listings []StoreListing
	if err := json.Unmarshal(sampleStoresJSON, &listings); err != nil {
		panic("petmed: invalid embedded sample stores: " + err.Error())
	}
	return listings
}
