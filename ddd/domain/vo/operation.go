package vo

// Operation names one media processing stage.
type Operation string

const (
	OperationCutSilence        Operation = "cut_silence"
	OperationEnhanceAudio      Operation = "enhance_audio"
	OperationGenerateThumbnail Operation = "generate_thumbnail"
	OperationGenerateSubtitles Operation = "generate_subtitles"
	OperationSummarize         Operation = "summarize"
	OperationEnhanceVideo      Operation = "enhance_video"
)

func (o Operation) String() string {
	return string(o)
}

// OperationOrder is the fixed execution order of a run.
var OperationOrder = []Operation{
	OperationCutSilence,
	OperationEnhanceAudio,
	OperationGenerateThumbnail,
	OperationGenerateSubtitles,
	OperationSummarize,
	OperationEnhanceVideo,
}
