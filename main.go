package main

import "github.com/frahmantamala/ecommerce-backend/cmd"

func main() {
	cmd.Execute()
}
