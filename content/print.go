package content

import (
	"fmt"
	"io"
)

const (
	connectorMiddle = "├─"
	connectorLast   = "└─"
	indentMiddle    = "│  "
	indentLast      = "   "
)

// PrintTree renders a folder tree as ascii art, items first, then exchanges,
// then sub folders
func PrintTree(w io.Writer, n *FolderNode) error {
	return printFolder(w, n, "", true)
}

func printFolder(w io.Writer, n *FolderNode, prefix string, last bool) error {
	connector, childPrefix := connectorMiddle, prefix+indentMiddle
	if last {
		connector, childPrefix = connectorLast, prefix+indentLast
	}
	if _, err := fmt.Fprintf(w, "%s%s %s %s\n", prefix, connector, MarkerFolder, n.Name); err != nil {
		return err
	}

	var (
		total = len(n.Items) + len(n.Exchanges) + len(n.Folders)
		i     = 0
	)
	printLeaf := func(marker, name string) error {
		i++
		c := connectorMiddle
		if i == total {
			c = connectorLast
		}
		_, err := fmt.Fprintf(w, "%s%s %s %s\n", childPrefix, c, marker, name)
		return err
	}

	for _, item := range n.Items {
		if err := printLeaf(MarkerItem, item.Name); err != nil {
			return err
		}
	}
	for _, exchange := range n.Exchanges {
		if err := printLeaf(MarkerExchange, exchange.Name); err != nil {
			return err
		}
	}
	for _, child := range n.Folders {
		i++
		if err := printFolder(w, child, childPrefix, i == total); err != nil {
			return err
		}
	}
	return nil
}
