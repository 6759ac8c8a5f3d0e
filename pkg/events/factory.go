package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	specVersion     = "1.0"
	dataContentType = "application/json"
)

// Factory builds event envelopes with a fixed source
type Factory struct {
	source string
}

// NewFactory creates a factory for the given event source URI
func NewFactory(source string) *Factory {
	return &Factory{source: source}
}

// New builds an envelope of the given type around data
func (f *Factory) New(eventType, subject string, data any) *Envelope {
	return &Envelope{
		SpecVersion:     specVersion,
		Type:            eventType,
		Source:          f.source,
		ID:              uuid.New().String(),
		Subject:         subject,
		Time:            time.Now().UTC(),
		DataContentType: dataContentType,
		Data:            data,
	}
}

// ScanRecorded builds a mes.scan.recorded event
func (f *Factory) ScanRecorded(data *ScanRecordedData) *Envelope {
	e := f.New(TypeScanRecorded, data.OrderNo, data)
	e.OrderNo = data.OrderNo
	e.BundleNo = data.BundleNo
	e.ScanMode = data.ScanMode
	return e
}

// ScanRejected builds a mes.scan.rejected event
func (f *Factory) ScanRejected(data *ScanRejectedData) *Envelope {
	e := f.New(TypeScanRejected, data.RawCode, data)
	e.ScanMode = data.ScanMode
	return e
}

// StageAdvanced builds a mes.stage.advanced event
func (f *Factory) StageAdvanced(data *StageAdvancedData) *Envelope {
	e := f.New(TypeStageAdvanced, data.OrderNo, data)
	e.OrderNo = data.OrderNo
	return e
}

// OrderCompleted builds a mes.order.completed event
func (f *Factory) OrderCompleted(data *OrderCompletedData) *Envelope {
	e := f.New(TypeOrderCompleted, data.OrderNo, data)
	e.OrderNo = data.OrderNo
	return e
}
