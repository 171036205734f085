package builder

import "fmt"

// codeOrDefault coerces an enumerated form value: a member of the allowed
// set is used verbatim, anything else becomes the default member. Several
// call sites rely on submission never being blocked by a bad enum value,
// so this is a fallback, not a validation failure.
func codeOrDefault(raw string, allowed []string, def string) string {
	for _, member := range allowed {
		if raw == member {
			return raw
		}
	}
	return def
}

// Composite date/time inputs arrive as discrete fields and are assembled
// into FHIR date strings. Range checking is the form's job; the builder
// only assembles. The offset matches the deployment's fixed clinic zone.
const zoneOffset = "+02:00"

func pad2(v string) string {
	if len(v) == 1 {
		return "0" + v
	}
	return v
}

// composeDate builds YYYY-MM-DD. Any missing part yields an empty string
// so the caller omits the field.
func composeDate(year, month, day string) string {
	if year == "" || month == "" || day == "" {
		return ""
	}
	return fmt.Sprintf("%s-%s-%s", year, pad2(month), pad2(day))
}

// composeDateTime builds YYYY-MM-DDTHH:MM:00 with the fixed zone suffix.
func composeDateTime(year, month, day, hour, minute string) string {
	date := composeDate(year, month, day)
	if date == "" || hour == "" || minute == "" {
		return ""
	}
	return fmt.Sprintf("%sT%s:%s:00%s", date, pad2(hour), pad2(minute), zoneOffset)
}
