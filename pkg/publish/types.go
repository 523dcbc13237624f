// Package publish uploads a finished build to S3, skipping objects whose
// size and CRC64NVME checksum already match.
package publish

type ItemMetadata struct {
	Path     string
	Size     int64
	Checksum string
}

type Options struct {
	DeleteEnabled bool
	Excludes      []string
}

type Action string

const (
	ActionUpload Action = "upload"
	ActionDelete Action = "delete"
	ActionSkip   Action = "skip"
)

const (
	ReasonNew             = "new file"
	ReasonSizeDiffers     = "size differs"
	ReasonChecksumDiffers = "checksum differs"
	ReasonStale           = "not in build output"
)

type Item struct {
	Action    Action
	LocalPath string
	Bucket    string
	Key       string
	Size      int64
	Reason    string
	Checksum  string
}

// URI returns the s3:// location of the item
func (i Item) URI() string {
	return "s3://" + i.Bucket + "/" + i.Key
}
