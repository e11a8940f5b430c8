package pkg

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"maxmargin/pkg/io"
)

func TestTrainAndTest(t *testing.T) {
	modelFile, err := ioutil.TempFile("", "points*.model")
	require.NoError(t, err)
	require.NoError(t, modelFile.Close())
	defer os.Remove(modelFile.Name())

	err = Train("../datasets/points/points.train", "../datasets/points/points.test",
		modelFile.Name(), "class", TrainingParameters{})
	require.NoError(t, err)

	saved, err := os.Open(modelFile.Name())
	require.NoError(t, err)
	defer saved.Close()

	m, err := io.LoadModel(saved)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, m.Hyperplane.SupportIndices)
	require.InDelta(t, 0.5, m.Hyperplane.Weights[0], 1e-2)
	require.InDelta(t, 0.5, m.Hyperplane.Weights[1], 1e-2)
	require.InDelta(t, -2.0, m.Hyperplane.Bias, 1e-2)

	outputFile, err := ioutil.TempFile("", "points*.out")
	require.NoError(t, err)
	require.NoError(t, outputFile.Close())
	defer os.Remove(outputFile.Name())

	err = Test(modelFile.Name(), "../datasets/points/points.test", outputFile.Name())
	require.NoError(t, err)

	out, err := ioutil.ReadFile(outputFile.Name())
	require.NoError(t, err)
	require.Contains(t, string(out), "neg,neg,")
	require.Contains(t, string(out), "pos,pos,")
}

func TestTrainMissingFile(t *testing.T) {
	err := Train("no-such-file.train", "", "", "class", TrainingParameters{})
	require.Error(t, err)
}

func TestTrainSingleClass(t *testing.T) {
	file, err := ioutil.TempFile("", "points*.csv")
	require.NoError(t, err)
	_, err = file.WriteString("x1,x2,class\n1,2,pos\n3,4,pos\n")
	require.NoError(t, err)
	require.NoError(t, file.Close())
	defer os.Remove(file.Name())

	err = Train(file.Name(), "", "", "class", TrainingParameters{})
	require.Error(t, err)
}
