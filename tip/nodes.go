package tip

import (
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rony4d/witgen/ledger"
)

// Downloader fetches a claim file into dir, naming it prefix_<basename of
// url>. It reports whether the file is available afterwards.
type Downloader interface {
	Download(url, dir, prefix string) (bool, error)
}

// LocalFiles is a Downloader that never touches the network: a claim file
// counts as downloaded when a previous run already left it in dir.
type LocalFiles struct{}

// Download implements Downloader.
func (LocalFiles) Download(url, dir, prefix string) (bool, error) {
	name := prefix + "_" + path.Base(url)
	info, err := os.Stat(filepath.Join(dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// loadNodes reads the sign-up CSV (email, wit_id, claim_file_url, ...) and
// records FromCSV and Downloaded memberships.
func (p *Program) loadNodes() error {
	n, err := forEachRow(p.cfg.NodesCSV, true, p.cfg.Limit, func(i int, row []string) error {
		email := strings.TrimSpace(column(row, 0))
		id := strings.TrimSpace(column(row, 1))
		url := strings.TrimSpace(column(row, 2))

		p.ledger.RecordStage(ledger.FromCSV, id)
		p.ledger.RecordEmail(ledger.FromCSV, email)
		p.ledger.SetEmail(id, email)

		if url == "" {
			return nil
		}
		ok, err := p.downloader.Download(url, p.cfg.ClaimsDir, id+"_"+strconv.Itoa(i))
		if err != nil {
			p.log.WithError(err).WithField("url", url).Warn("Failed to download claim file")
			return nil
		}
		if !ok {
			p.log.WithField("url", url).Info("Claim file not available")
			return nil
		}
		p.ledger.RecordStage(ledger.Downloaded, id)
		p.ledger.RecordEmail(ledger.Downloaded, email)
		return nil
	})
	p.log.WithField("participants", n).Info("Loaded sign-up list")
	return err
}
