package model

import "encoding/json"

// POIFacts carries verified facts about a POI. The well-known fields are
// typed; anything else an upstream source attaches lands in Extra so the
// transformation logic never depends on untyped attribute access.
type POIFacts struct {
	Established *string        `json:"established,omitempty"`
	DepthM      *float64       `json:"depth_m,omitempty"`
	UNESCOSite  *bool          `json:"unesco_site,omitempty"`
	Extra       map[string]any `json:"-"`
}

type knownFacts struct {
	Established *string  `json:"established,omitempty"`
	DepthM      *float64 `json:"depth_m,omitempty"`
	UNESCOSite  *bool    `json:"unesco_site,omitempty"`
}

// MarshalJSON flattens the Extra side-map back into the object. Known field
// names always win over Extra entries of the same name.
func (f POIFacts) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(f.Extra)+3)
	for k, v := range f.Extra {
		out[k] = v
	}

	known, err := json.Marshal(knownFacts{Established: f.Established, DepthM: f.DepthM, UNESCOSite: f.UNESCOSite})
	if err != nil {
		return nil, err
	}
	var km map[string]any
	if err := json.Unmarshal(known, &km); err != nil {
		return nil, err
	}
	for k, v := range km {
		out[k] = v
	}

	return json.Marshal(out)
}

// UnmarshalJSON splits an open fact object into the typed fields and Extra.
func (f *POIFacts) UnmarshalJSON(data []byte) error {
	var known knownFacts
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	delete(raw, "established")
	delete(raw, "depth_m")
	delete(raw, "unesco_site")

	f.Established = known.Established
	f.DepthM = known.DepthM
	f.UNESCOSite = known.UNESCOSite
	f.Extra = nil
	if len(raw) > 0 {
		f.Extra = make(map[string]any, len(raw))
		for k, v := range raw {
			var val any
			if err := json.Unmarshal(v, &val); err != nil {
				return err
			}
			f.Extra[k] = val
		}
	}
	return nil
}
