// SPDX-License-Identifier: EPL-2.0

package session

import (
	"fmt"
	"strings"

	"github.com/ik5/audpractice/transport"
)

func actionName(a transport.Action) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", a), "transport.")
}

func commandName(c transport.Command) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", c), "transport.")
}
