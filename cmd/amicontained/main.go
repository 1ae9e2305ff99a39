// Report the CPU count and the recommended thread count of this process.

package main

import (
	"os"

	"github.com/Netflix/libamicontained"
)

func init() {
	libamicontained.UpdateBuildInfo(Version, GitInfo)
}

func main() {
	os.Exit(libamicontained.Run())
}
