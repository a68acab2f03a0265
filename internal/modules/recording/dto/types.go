package dto

import "finquest/internal/modules/recording/domain"

type StatusOutput struct {
	State          domain.State
	ElapsedSeconds int
	HasClip        bool
	ClipMillis     int
	PreviewPath    string
	Message        string
}
