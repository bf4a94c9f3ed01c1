package imgfs

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"github.com/hoperedemption/imgfs/internal/imgfserr"
)

// ListJSON renders the catalog as {"Images": [img_id, ...]} with the ids of
// every valid entry in slot order. An empty store yields {"Images": []}.
func (s *Store) ListJSON() ([]byte, error) {
	images := make([]string, 0, s.Header.NbFiles)
	for i := range s.Metadata {
		if s.Metadata[i].Valid() {
			images = append(images, s.Metadata[i].ID())
		}
	}

	out, err := json.Marshal(struct {
		Images []string `json:"Images"`
	}{Images: images})
	if err != nil {
		return nil, fmt.Errorf("%w: encode list: %v", imgfserr.ErrRuntime, err)
	}
	return out, nil
}

// DumpText writes the human-readable catalog: the header block, then every
// valid metadata entry in slot order, or the empty-store marker.
func (s *Store) DumpText(w io.Writer) error {
	if _, err := io.WriteString(w, s.Header.String()); err != nil {
		return fmt.Errorf("%w: %v", imgfserr.ErrIO, err)
	}

	if s.Header.NbFiles == 0 {
		if _, err := io.WriteString(w, "<< empty imgFS >>\n"); err != nil {
			return fmt.Errorf("%w: %v", imgfserr.ErrIO, err)
		}
		return nil
	}

	for i := range s.Metadata {
		if !s.Metadata[i].Valid() {
			continue
		}
		if _, err := io.WriteString(w, s.Metadata[i].String()); err != nil {
			return fmt.Errorf("%w: %v", imgfserr.ErrIO, err)
		}
	}
	return nil
}

func (h *Header) String() string {
	thumbW, thumbH := h.ThumbRes()
	smallW, smallH := h.SmallRes()
	return fmt.Sprintf("*****************************************\n"+
		"********** IMGFS HEADER START ***********\n"+
		"TYPE: %s\n"+
		"VERSION: %d\n"+
		"IMAGE COUNT: %d\t\tMAX IMAGES: %d\n"+
		"THUMBNAIL: %d x %d\tSMALL: %d x %d\n"+
		"*********** IMGFS HEADER END ************\n"+
		"*****************************************\n",
		h.StoreName(), h.Version, h.NbFiles, h.MaxFiles,
		thumbW, thumbH, smallW, smallH)
}

func (m *Metadata) String() string {
	return fmt.Sprintf("IMAGE ID: %s\n"+
		"SHA: %s\n"+
		"VALID: %d\n"+
		"UNUSED: %d\n"+
		"OFFSET ORIG. : %d\t\tSIZE ORIG. : %d\n"+
		"OFFSET THUMB.: %d\t\tSIZE THUMB.: %d\n"+
		"OFFSET SMALL : %d\t\tSIZE SMALL : %d\n"+
		"ORIGINAL: %d x %d\n"+
		"*****************************************\n",
		m.ID(), hex.EncodeToString(m.SHA[:]), m.IsValid, m.Unused16,
		m.Offset[ResOrig], m.Size[ResOrig],
		m.Offset[ResThumb], m.Size[ResThumb],
		m.Offset[ResSmall], m.Size[ResSmall],
		m.OrigRes[0], m.OrigRes[1])
}
