package shipping

import (
	"encoding/json"
	"errors"
)

// ErrUnrecognizedTrackingPayload is returned when an inbound carrier push
// carries no tracking number in any of the known payload shapes. The webhook
// endpoint acknowledges such pushes without updating anything.
var ErrUnrecognizedTrackingPayload = errors.New("tracking payload carries no tracking number")

// TrackingEvent is a normalized inbound carrier-status push. The aggregator
// sends differently nested payloads depending on event type; ParseTrackingEvent
// reduces all known shapes to this one record.
type TrackingEvent struct {
	TrackingNumber string

	// RawStatus is the carrier's free-form status string, unmapped.
	RawStatus string

	// Details is the status object (or, failing that, the whole data
	// object) kept verbatim for the order's status-detail blob.
	Details json.RawMessage
}

// ParseTrackingEvent extracts a tracking number and raw status string from a
// loosely-typed webhook payload. Three nesting shapes are tried in order:
//
//  1. a top-level "data" object wrapping the event (fields read from data)
//  2. fields directly on the payload
//  3. a nested "tracking" object carrying tracking_number
//
// The status is read from data.tracking_status.status, then a string-valued
// data.tracking_status, then data.status. Returns
// ErrUnrecognizedTrackingPayload when no tracking number is found anywhere.
func ParseTrackingEvent(raw []byte) (TrackingEvent, error) {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		return TrackingEvent{}, err
	}

	data := payload
	if inner, ok := payload["data"]; ok {
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(inner, &nested); err == nil && nested != nil {
			data = nested
		}
	}

	trackingNumber := stringField(data, "tracking_number")
	if trackingNumber == "" {
		trackingNumber = stringField(data, "trackingNumber")
	}
	if trackingNumber == "" {
		if trackingRaw, ok := data["tracking"]; ok {
			var tracking map[string]json.RawMessage
			if err := json.Unmarshal(trackingRaw, &tracking); err == nil {
				trackingNumber = stringField(tracking, "tracking_number")
			}
		}
	}
	if trackingNumber == "" {
		return TrackingEvent{}, ErrUnrecognizedTrackingPayload
	}

	event := TrackingEvent{TrackingNumber: trackingNumber}

	if statusRaw, ok := data["tracking_status"]; ok {
		var statusObj map[string]json.RawMessage
		if err := json.Unmarshal(statusRaw, &statusObj); err == nil && statusObj != nil {
			event.RawStatus = stringField(statusObj, "status")
			event.Details = statusRaw
		} else {
			// tracking_status may be a bare string on some event types.
			var s string
			if err := json.Unmarshal(statusRaw, &s); err == nil {
				event.RawStatus = s
			}
		}
	}
	if event.RawStatus == "" {
		event.RawStatus = stringField(data, "status")
	}
	if event.Details == nil {
		if details, err := json.Marshal(data); err == nil {
			event.Details = details
		}
	}

	return event, nil
}

func stringField(doc map[string]json.RawMessage, key string) string {
	raw, ok := doc[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
