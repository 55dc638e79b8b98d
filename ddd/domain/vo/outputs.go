package vo

// SubtitleOutput records both subtitle files of a run.
type SubtitleOutput struct {
	TrackPath      string         `json:"track_path"`
	StructuredPath string         `json:"structured_path"`
	Language       string         `json:"language"`
	Style          string         `json:"style"`
	Origin         SubtitleOrigin `json:"origin,omitempty"`
}

// Outputs is the fixed set of artifacts a video can carry. A nil field means the
// producing operation has never succeeded.
type Outputs struct {
	ProcessedVideo *string         `json:"processed_video"`
	Thumbnail      *string         `json:"thumbnail"`
	Subtitles      *SubtitleOutput `json:"subtitles"`
	Summary        *string         `json:"summary"`
}

// ArtifactSlot names a field of Outputs.
type ArtifactSlot string

const (
	SlotProcessedVideo ArtifactSlot = "processed_video"
	SlotThumbnail      ArtifactSlot = "thumbnail"
	SlotSubtitles      ArtifactSlot = "subtitles"
	SlotSummary        ArtifactSlot = "summary"
)

// Artifact is the successful result of one operation: the slot it fills and its value.
type Artifact struct {
	Slot      ArtifactSlot
	Path      string
	Subtitles *SubtitleOutput
}

func ProcessedVideoArtifact(path string) Artifact {
	return Artifact{Slot: SlotProcessedVideo, Path: path}
}

func ThumbnailArtifact(path string) Artifact {
	return Artifact{Slot: SlotThumbnail, Path: path}
}

func SummaryArtifact(path string) Artifact {
	return Artifact{Slot: SlotSummary, Path: path}
}

func SubtitlesArtifact(out SubtitleOutput) Artifact {
	return Artifact{Slot: SlotSubtitles, Subtitles: &out}
}

// Apply writes a into its slot, leaving every other slot untouched.
func (o *Outputs) Apply(a Artifact) {
	switch a.Slot {
	case SlotProcessedVideo:
		p := a.Path
		o.ProcessedVideo = &p
	case SlotThumbnail:
		p := a.Path
		o.Thumbnail = &p
	case SlotSummary:
		p := a.Path
		o.Summary = &p
	case SlotSubtitles:
		if a.Subtitles != nil {
			s := *a.Subtitles
			o.Subtitles = &s
		}
	}
}

// Paths lists every file recorded in the outputs, both subtitle files included.
func (o Outputs) Paths() []string {
	var paths []string
	add := func(p *string) {
		if p != nil && *p != "" {
			paths = append(paths, *p)
		}
	}
	add(o.ProcessedVideo)
	add(o.Thumbnail)
	if o.Subtitles != nil {
		add(&o.Subtitles.TrackPath)
		add(&o.Subtitles.StructuredPath)
	}
	add(o.Summary)
	return paths
}

// PresentSlots lists the non-null slots in a stable order.
func (o Outputs) PresentSlots() []ArtifactSlot {
	var slots []ArtifactSlot
	if o.ProcessedVideo != nil {
		slots = append(slots, SlotProcessedVideo)
	}
	if o.Thumbnail != nil {
		slots = append(slots, SlotThumbnail)
	}
	if o.Subtitles != nil {
		slots = append(slots, SlotSubtitles)
	}
	if o.Summary != nil {
		slots = append(slots, SlotSummary)
	}
	return slots
}
