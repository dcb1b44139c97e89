package service

import (
	"fmt"
	"hash/fnv"

	"github.com/Weewpee/autotrade-bot/internal/models"

	"github.com/bytedance/sonic"
)

// SignalID derives the pending id from a content hash of the canonical
// record: the same alert posted twice maps onto the same id, so re-ingestion
// is a safe upsert. Ids are short enough to share in chat. Не крипта —
// достаточно отсутствия случайных коллизий в пределах торгового дня.
func SignalID(sig *models.Signal) string {
	data, err := sonic.Marshal(sig)
	if err != nil {
		// canonical record is a plain struct, marshal cannot realistically fail
		data = []byte(fmt.Sprintf("%v", sig))
	}
	h := fnv.New64a()
	_, _ = h.Write(data)
	return fmt.Sprintf("%016x", h.Sum64())
}
