package basicinfo

// Mode selects which fields the panel shows.
type Mode struct {
	IGV     bool // embedded genome browser view: variant type and HGVSg only
	ShowVue bool // variant has a revised effect for the selected transcript
}

// Key groups, in display order.
var (
	keysBeforeVue = []Key{KeyHugoGeneSymbol, KeyOncogene, KeyTSG}
	keysNoVue     = []Key{KeyHugoGeneSymbol, KeyOncogene, KeyTSG, KeyHgvsShort, KeyVariantClassification}
	keysAfterVue  = []Key{KeyVariantType, KeyHgvsg, KeyHgvsc, KeyTranscript, KeyRefSeq}
	keysForIGV    = []Key{KeyVariantType, KeyHgvsg}
)

// Layout is the grouping of fields for one render. When Vue is set, the
// revised effect block goes between Before and After.
type Layout struct {
	Before []Field
	Vue    bool
	After  []Field
}

// Select groups fields for the given mode. IGV mode ignores ShowVue.
func Select(fields []Field, mode Mode) Layout {
	if mode.IGV {
		return Layout{Before: FilterByKey(keysForIGV, fields)}
	}
	if mode.ShowVue {
		return Layout{
			Before: FilterByKey(keysBeforeVue, fields),
			Vue:    true,
			After:  FilterByKey(keysAfterVue, fields),
		}
	}
	return Layout{
		Before: FilterByKey(keysNoVue, fields),
		After:  FilterByKey(keysAfterVue, fields),
	}
}

// FilterByKey returns the fields whose key is in keys, in field order.
func FilterByKey(keys []Key, fields []Field) []Field {
	var out []Field
	for _, f := range fields {
		for _, k := range keys {
			if f.Key == k {
				out = append(out, f)
				break
			}
		}
	}
	return out
}
