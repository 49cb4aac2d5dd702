package output

import "rym2spotify/internal/domain/entity"

type Extractor interface {
	ParseList(html string) []entity.Entry
	ParseDetail(html string) (string, bool)
}
