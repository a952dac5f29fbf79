// Package compileinfoprint prints the program's build info to os.Stderr when imported.
package compileinfoprint

import "github.com/carbocation/phenocompare/compileinfo"

func init() {
	compileinfo.PrintToStdErr()
}
