package common

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/anacrolix/torrent/bencode"
	"github.com/anacrolix/torrent/metainfo"

	"github.com/halfmoonpt/trackarr/internal/request"
	"github.com/halfmoonpt/trackarr/pkg/meta"
)

// CreateForUpload produces the per-tracker torrent file for a release.
// The base torrent is built once per release and cached as BASE.torrent
// in the work directory; each tracker then gets a copy with its own
// announce URL, the private flag set, and the tracker's source tag
// stamped into the info dictionary so the infohash is unique per site.
func CreateForUpload(m *meta.Meta, trackerName, announce, sourceTag string) (string, error) {
	base := m.BaseTorrentFile()
	if _, err := os.Stat(base); err != nil {
		if err := buildBaseTorrent(m, base); err != nil {
			return "", err
		}
	}

	mi, err := metainfo.LoadFromFile(base)
	if err != nil {
		return "", fmt.Errorf("loading base torrent: %w", err)
	}
	info, err := mi.UnmarshalInfo()
	if err != nil {
		return "", fmt.Errorf("unmarshalling torrent info: %w", err)
	}

	private := true
	info.Private = &private
	info.Source = sourceTag

	mi.InfoBytes, err = bencode.Marshal(info)
	if err != nil {
		return "", fmt.Errorf("marshalling torrent info: %w", err)
	}
	mi.Announce = announce
	mi.AnnounceList = nil
	mi.Comment = ""

	out := m.TorrentFile(trackerName)
	f, err := os.Create(out)
	if err != nil {
		return "", fmt.Errorf("creating torrent file: %w", err)
	}
	defer f.Close()
	if err := mi.Write(f); err != nil {
		return "", fmt.Errorf("writing torrent file: %w", err)
	}
	return out, nil
}

func buildBaseTorrent(m *meta.Meta, dest string) error {
	info := metainfo.Info{PieceLength: 1 << 24}
	if err := info.BuildFromFilePath(m.Path); err != nil {
		return fmt.Errorf("hashing %s: %w", m.Path, err)
	}

	mi := metainfo.MetaInfo{CreatedBy: "trackarr"}
	var err error
	mi.InfoBytes, err = bencode.Marshal(info)
	if err != nil {
		return fmt.Errorf("marshalling torrent info: %w", err)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating base torrent: %w", err)
	}
	defer f.Close()
	return mi.Write(f)
}

// DownloadTorrent fetches a torrent file from the tracker and writes it
// to dest after checking the payload actually bencodes as a torrent;
// sites answer download links with HTML error pages on bad passkeys.
func DownloadTorrent(ctx context.Context, client *request.Client, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating download request: %w", err)
	}
	body, err := client.MakeRequest(req)
	if err != nil {
		return fmt.Errorf("downloading torrent: %w", err)
	}

	if _, err := metainfo.Load(bytes.NewReader(body)); err != nil {
		return fmt.Errorf("response is not a torrent: %w", err)
	}
	if err := os.WriteFile(dest, body, 0o644); err != nil {
		return fmt.Errorf("writing torrent: %w", err)
	}
	return nil
}
