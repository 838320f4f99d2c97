// Command heritagectl performs operator tasks against the heritage database:
// bootstrapping admin accounts and moderating monuments.
package main

func main() {
	Execute()
}
