// Command hrportal serves and queries the HR portal collections.
package main

import "github.com/nimburion/hrportal/pkg/cli"

func main() {
	cli.Execute(cli.NewRootCommand())
}
