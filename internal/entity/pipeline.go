package entity

type PipelineStatus string

// Pipeline status follows IDLE -> OUTLINE_GENERATED -> CHAPTERS_GENERATED -> DONE
const (
	PipelineStatusIdle              PipelineStatus = "IDLE"
	PipelineStatusOutlineGenerated  PipelineStatus = "OUTLINE_GENERATED"
	PipelineStatusChaptersGenerated PipelineStatus = "CHAPTERS_GENERATED"
	PipelineStatusDone              PipelineStatus = "DONE"
)

type PipelineMode string

const (
	// PipelineModePlan generates the outline with a single call and splits it on "Chapitre"
	PipelineModePlan PipelineMode = "plan"
	// PipelineModeRefined asks the model for a prompt first and splits the outline on "Module"
	PipelineModeRefined PipelineMode = "refined"
)

func (m PipelineMode) Validate() error {
	switch m {
	case PipelineModePlan, PipelineModeRefined:
		return nil
	default:
		return ErrInvalidParameter
	}
}

type ResultFormat string

const (
	FormatPDF      ResultFormat = "pdf"
	FormatDOCX     ResultFormat = "docx"
	FormatMarkdown ResultFormat = "md"
	FormatHTML     ResultFormat = "html"
)

type ExportTarget string

const (
	ExportOutline ExportTarget = "outline"
	ExportCourse  ExportTarget = "course"
	ExportChapter ExportTarget = "chapter"
)
