package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewConfirmationCode membuat kode konfirmasi yang time-ordered (prefix
// unix millis) dengan fragmen UUID sebagai pembeda ketika dua request
// masuk pada milidetik yang sama. Kolom confirmation_code tetap memakai
// unique index sebagai backstop.
func NewConfirmationCode() string {
	frag := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), frag)
}
