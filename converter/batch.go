package converter

import (
	"path/filepath"
	"sync/atomic"

	"lyrics-convert-go/model"
)

// BatchFileID uniquely identifies a file loaded for batch conversion.
type BatchFileID uint64

// BatchConfigID uniquely identifies one batch conversion task.
type BatchConfigID uint64

var (
	batchFileCounter   atomic.Uint64
	batchConfigCounter atomic.Uint64
)

// NewBatchFileID allocates the next file ID.
func NewBatchFileID() BatchFileID {
	return BatchFileID(batchFileCounter.Add(1))
}

// NewBatchConfigID allocates the next config ID.
func NewBatchConfigID() BatchConfigID {
	return BatchConfigID(batchConfigCounter.Add(1))
}

// BatchLoadedFile is a single file loaded in batch conversion mode.
type BatchLoadedFile struct {
	ID       BatchFileID
	Path     string
	Filename string
}

// NewBatchLoadedFile builds the record for one loaded path.
func NewBatchLoadedFile(path string) BatchLoadedFile {
	return BatchLoadedFile{
		ID:       NewBatchFileID(),
		Path:     path,
		Filename: filepath.Base(path),
	}
}

// BatchEntryState enumerates the lifecycle of one batch task.
type BatchEntryState int

const (
	BatchPending BatchEntryState = iota
	BatchReadyToConvert
	BatchConverting
	BatchCompleted
	BatchFailed
	// BatchSkippedNoMatch marks an auxiliary file with no main lyric
	// file to pair with.
	BatchSkippedNoMatch
)

// BatchEntryStatus is the state of one batch task plus its outcome data.
type BatchEntryStatus struct {
	State      BatchEntryState
	OutputPath string
	Warnings   []string
	Error      string
}

// BatchConversionConfig is the configuration of one batch conversion task.
type BatchConversionConfig struct {
	ID                    BatchConfigID
	MainLyricID           BatchFileID
	TranslationLyricIDs   []BatchFileID
	RomanizationLyricIDs  []BatchFileID
	TargetFormat          model.LyricFormat
	OutputFilenamePreview string
	Status                BatchEntryStatus
	LastError             string
}

// NewBatchConversionConfig creates a pending task for one main file.
func NewBatchConversionConfig(mainLyricID BatchFileID, targetFormat model.LyricFormat, outputFilename string) BatchConversionConfig {
	return BatchConversionConfig{
		ID:                    NewBatchConfigID(),
		MainLyricID:           mainLyricID,
		TargetFormat:          targetFormat,
		OutputFilenamePreview: outputFilename,
		Status:                BatchEntryStatus{State: BatchPending},
	}
}

// BatchTaskUpdate carries a status change for one batch task.
type BatchTaskUpdate struct {
	EntryConfigID BatchConfigID
	NewStatus     BatchEntryStatus
}
