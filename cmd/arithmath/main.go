// Command arithmath trains the perceptron and multinomial logistic
// regression classifiers on synthetic Gaussian clusters.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
