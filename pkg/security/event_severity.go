package security

import "go.uber.org/zap/zapcore"

// Severity represents the severity level of a security event
// This is derived from EventType, NOT user-provided
type Severity string

const (
	SeverityINFO Severity = "INFO"
	SeverityWARN Severity = "WARN"
	SeverityHIGH Severity = "HIGH"
)

// EventSeverityMap defines the hard-coded severity for each event type
var EventSeverityMap = map[EventType]Severity{
	// INFO - visitor mistakes, expected during normal use
	EventValidationFailed: SeverityINFO,

	// WARN - repeated or automated traffic
	EventDuplicateSubmit:    SeverityWARN,
	EventRateLimitTriggered: SeverityWARN,

	// HIGH - lost messages or forged requests
	EventDeliveryFailed: SeverityHIGH,
	EventCSRFViolation:  SeverityHIGH,
}

// GetSeverity returns the severity for an event type. Unknown events are WARN.
func GetSeverity(eventType EventType) Severity {
	if severity, ok := EventSeverityMap[eventType]; ok {
		return severity
	}
	return SeverityWARN
}

// IsHighOrAbove reports whether the event should page someone.
func IsHighOrAbove(eventType EventType) bool {
	return GetSeverity(eventType) == SeverityHIGH
}

func (s Severity) zapLevel() zapcore.Level {
	switch s {
	case SeverityINFO:
		return zapcore.InfoLevel
	case SeverityHIGH:
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}
