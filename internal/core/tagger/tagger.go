// Package tagger embeds metadata into completed FLAC downloads. Files in
// other formats are skipped; the backend's mp3 output already carries tags.
package tagger

import (
	"fmt"
	"strings"

	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"

	"tunedeck/internal/shared"
)

const encoderTag = "tunedeck/1.0"

// Tagger writes vorbis comments and optional cover art.
type Tagger struct {
	warnings *shared.WarningCollector
}

// New creates a Tagger.
func New(warnings *shared.WarningCollector) *Tagger {
	return &Tagger{warnings: warnings}
}

// TagDownload writes the song's metadata into its file when the file is a
// FLAC. Non-FLAC files return nil without touching the file.
func (t *Tagger) TagDownload(song *shared.Song) error {
	return t.TagDownloadWithCover(song, nil)
}

// TagDownloadWithCover is TagDownload plus an optional embedded cover image.
func (t *Tagger) TagDownloadWithCover(song *shared.Song, coverData []byte) error {
	if song == nil || !strings.HasSuffix(strings.ToLower(song.FilePath), ".flac") {
		return nil
	}

	f, err := flac.ParseFile(song.FilePath)
	if err != nil {
		return fmt.Errorf("failed to parse FLAC file: %w", err)
	}

	// Drop existing VORBIS_COMMENT and PICTURE blocks for clean metadata
	var kept []*flac.MetaDataBlock
	for _, block := range f.Meta {
		if block.Type != flac.VorbisComment && block.Type != flac.Picture {
			kept = append(kept, block)
		}
	}
	f.Meta = kept

	comment := flacvorbis.New()
	addField(comment, flacvorbis.FIELD_TITLE, song.Title)
	addField(comment, flacvorbis.FIELD_ARTIST, song.Artist)
	addField(comment, flacvorbis.FIELD_ALBUM, song.Album)
	addField(comment, "GENRE", song.Genre)
	if song.Duration > 0 {
		addField(comment, "LENGTH", fmt.Sprintf("%d", song.Duration))
	}
	addField(comment, "ENCODER", encoderTag)

	vorbisCommentBlock := comment.Marshal()
	f.Meta = append(f.Meta, &vorbisCommentBlock)

	if err := addCoverArt(f, coverData); err != nil && t.warnings != nil {
		t.warnings.AddWarning(shared.CoverArtWarning, song.DisplayName(), "Failed to embed cover art", err.Error())
	}

	if err := f.Save(song.FilePath); err != nil {
		return fmt.Errorf("failed to save FLAC file with metadata: %w", err)
	}
	return nil
}

// addField adds a field to vorbis comment only if value is not empty
func addField(comment *flacvorbis.MetaDataBlockVorbisComment, field, value string) {
	if value != "" {
		comment.Add(field, value)
	}
}

func addCoverArt(f *flac.File, coverData []byte) error {
	if len(coverData) == 0 {
		return nil
	}
	picture, err := flacpicture.NewFromImageData(flacpicture.PictureTypeFrontCover, "Front cover", coverData, "image/jpeg")
	if err != nil {
		return fmt.Errorf("failed to build picture block: %w", err)
	}
	pictureBlock := picture.Marshal()
	f.Meta = append(f.Meta, &pictureBlock)
	return nil
}
