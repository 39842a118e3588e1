package alwaysserve

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

var errorForbidden = fmt.Errorf("Forbidden request path")

// resolve maps an escaped request path onto the root directory and
// returns the candidate filenames to try in order. Percent-escapes are
// decoded before the traversal check so that encoded spellings of ".."
// cannot slip through. If the path ends with a separator, one candidate
// per configured index name is returned. The filesystem is not touched.
func resolve(root, requestPath string, indexNames []string) ([]string, error) {
	decoded, err := url.PathUnescape(requestPath)
	if err != nil {
		return nil, errorForbidden
	}
	for _, segment := range strings.Split(decoded, "/") {
		if segment == ".." {
			return nil, errorForbidden
		}
	}
	joined := filepath.Join(root, filepath.FromSlash(decoded))
	if strings.HasSuffix(decoded, "/") {
		candidates := make([]string, len(indexNames))
		for i, name := range indexNames {
			candidates[i] = filepath.Join(joined, name)
		}
		return candidates, nil
	}
	return []string{joined}, nil
}
