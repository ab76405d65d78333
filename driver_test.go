package hyperlab_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	hyperlab "github.com/vmlab/hyperv-lab"
)

func TestDriverIdentity(t *testing.T) {
	vd := hyperlab.NewDriver()

	assert.Equal(t, "hyperv", vd.Name())
	assert.Equal(t, "Hyper-V lab provisioning driver", vd.Description())
}
