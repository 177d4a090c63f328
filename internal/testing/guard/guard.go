package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("AITASK_TEST_MODE") == "" {
			_ = os.Setenv("AITASK_TEST_MODE", "1")
		}
	})
}
