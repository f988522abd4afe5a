package sim

import (
	"context"
	"sync"

	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/rhythms/internal/dynamo"
	"github.com/san-kum/rhythms/internal/rhythms"
)

func constNoise(dynamo.Kind) dynamo.Noise { return dynamo.ConstNoise(0.5) }

func sampleAll(reg *Registry) []dynamo.Snapshot {
	snaps, err := reg.SampleAll(context.Background(), 1)
	Expect(err).NotTo(HaveOccurred())
	return snaps
}

func oscillatorTime(reg *Registry) float64 {
	snap, err := reg.Sample(dynamo.OscillatorNetwork, 0)
	Expect(err).NotTo(HaveOccurred())
	return snap.Metadata["time"].(float64)
}

var _ = Describe("Registry", func() {
	var reg *Registry

	BeforeEach(func() {
		reg = NewRegistry(rhythms.DefaultParams(), constNoise)
	})

	It("holds one instance of every kind", func() {
		for _, k := range dynamo.Kinds() {
			snap, err := reg.Sample(k, 42)
			Expect(err).NotTo(HaveOccurred())
			Expect(snap.Kind).To(Equal(k))
			Expect(snap.Timestamp).To(Equal(42.0))
		}
	})

	It("keeps state between calls", func() {
		Expect(reg.Update(dynamo.OscillatorNetwork, 0.5)).To(Succeed())
		Expect(reg.Update(dynamo.OscillatorNetwork, 0.25)).To(Succeed())
		Expect(oscillatorTime(reg)).To(BeNumerically("~", 0.75, 1e-12))
	})

	Context("with an unknown identifier", func() {
		It("fails without touching any model", func() {
			for i := 0; i < 5; i++ {
				Expect(reg.Update(dynamo.TensionRelease, 0.3)).To(Succeed())
			}
			before := sampleAll(reg)

			for _, k := range []dynamo.Kind{-1, 5, 99} {
				Expect(reg.Update(k, 1.0)).To(MatchError(dynamo.ErrUnknownRhythm))
				_, err := reg.Sample(k, 1)
				Expect(err).To(MatchError(dynamo.ErrUnknownRhythm))
				_, err = reg.Step(k, 1.0, 1)
				Expect(err).To(MatchError(dynamo.ErrUnknownRhythm))
			}

			Expect(cmp.Diff(before, sampleAll(reg))).To(BeEmpty())
		})
	})

	Context("with an invalid delta", func() {
		It("rejects it before mutating", func() {
			before := sampleAll(reg)

			Expect(reg.Update(dynamo.Criticality, -1)).To(MatchError(dynamo.ErrInvalidDelta))
			_, err := reg.Step(dynamo.VortexField, -0.5, 1)
			Expect(err).To(MatchError(dynamo.ErrInvalidDelta))
			Expect(reg.UpdateAll(context.Background(), -2)).To(MatchError(dynamo.ErrInvalidDelta))

			Expect(cmp.Diff(before, sampleAll(reg))).To(BeEmpty())
		})

		It("accepts a zero delta", func() {
			Expect(reg.Update(dynamo.Attention, 0)).To(Succeed())
		})
	})

	Context("under concurrent access", func() {
		It("does not lose updates to the same model", func() {
			const workers, perWorker = 8, 250

			var wg sync.WaitGroup
			for w := 0; w < workers; w++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					defer GinkgoRecover()
					for i := 0; i < perWorker; i++ {
						Expect(reg.Update(dynamo.OscillatorNetwork, 1.0)).To(Succeed())
					}
				}()
			}
			wg.Wait()

			Expect(oscillatorTime(reg)).To(Equal(float64(workers * perWorker)))
		})

		It("sums two concurrent unit deltas exactly", func() {
			start := oscillatorTime(reg)

			var wg sync.WaitGroup
			wg.Add(2)
			for i := 0; i < 2; i++ {
				go func() {
					defer wg.Done()
					defer GinkgoRecover()
					Expect(reg.Update(dynamo.OscillatorNetwork, 1.0)).To(Succeed())
				}()
			}
			wg.Wait()

			Expect(oscillatorTime(reg)).To(Equal(start + 2.0))
		})

		It("isolates different models", func() {
			sequential := NewRegistry(rhythms.DefaultParams(), constNoise)
			for i := 0; i < 200; i++ {
				Expect(sequential.Update(dynamo.OscillatorNetwork, 0.05)).To(Succeed())
			}
			for i := 0; i < 200; i++ {
				Expect(sequential.Update(dynamo.TensionRelease, 2.5)).To(Succeed())
			}

			var wg sync.WaitGroup
			wg.Add(2)
			go func() {
				defer wg.Done()
				defer GinkgoRecover()
				for i := 0; i < 200; i++ {
					Expect(reg.Update(dynamo.OscillatorNetwork, 0.05)).To(Succeed())
				}
			}()
			go func() {
				defer wg.Done()
				defer GinkgoRecover()
				for i := 0; i < 200; i++ {
					Expect(reg.Update(dynamo.TensionRelease, 2.5)).To(Succeed())
				}
			}()
			wg.Wait()

			Expect(cmp.Diff(sampleAll(sequential), sampleAll(reg))).To(BeEmpty())
		})

		It("allows readers and writers to interleave", func() {
			ctx := context.Background()
			var wg sync.WaitGroup
			for w := 0; w < 4; w++ {
				wg.Add(2)
				go func() {
					defer wg.Done()
					defer GinkgoRecover()
					for i := 0; i < 100; i++ {
						Expect(reg.UpdateAll(ctx, 0.016)).To(Succeed())
					}
				}()
				go func() {
					defer wg.Done()
					defer GinkgoRecover()
					for i := 0; i < 100; i++ {
						snaps, err := reg.SampleAll(ctx, float64(i))
						Expect(err).NotTo(HaveOccurred())
						Expect(snaps).To(HaveLen(5))
					}
				}()
			}
			wg.Wait()

			Expect(oscillatorTime(reg)).To(BeNumerically("~", 4*100*0.016, 1e-9))
		})
	})

	It("returns snapshots in kind order from SampleAll", func() {
		snaps := sampleAll(reg)
		for i, k := range dynamo.Kinds() {
			Expect(snaps[i].Kind).To(Equal(k))
		}
	})

	It("stops UpdateAll on a cancelled context", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		Expect(reg.UpdateAll(ctx, 0.1)).To(MatchError(context.Canceled))
	})
})
