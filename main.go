/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package main

import (
	"github.com/josephgoksu/pkghistory/cmd"
	"github.com/josephgoksu/pkghistory/internal/logger"
)

func main() {
	defer logger.HandlePanic()
	cmd.Execute()
}
