package renderer

import "astro-render/scene"

// splitDepthBuffer partitions the sorted visible items into disjoint depth
// spans, iterating from the most distant item forward. Items that overlap
// the current span widen it; a disjoint item first closes the gap with an
// empty span, then opens a new one. The resulting list is far-first.
func (e *Engine) splitDepthBuffer() {
	e.depthSpans = e.depthSpans[:0]

	for i := len(e.visibleItems) - 1; i >= 0; i-- {
		item := &e.visibleItems[i]

		if len(e.depthSpans) == 0 {
			e.depthSpans = append(e.depthSpans, depthBufferSpan{
				backItemIndex: i,
				itemCount:     1,
				farDistance:   item.farDistance,
				nearDistance:  item.nearDistance,
			})
			continue
		}

		span := &e.depthSpans[len(e.depthSpans)-1]
		if item.farDistance < span.nearDistance {
			// Disjoint: record the empty gap, then start a new span for
			// the item.
			emptySpan := depthBufferSpan{
				farDistance:   span.nearDistance,
				nearDistance:  item.farDistance,
				backItemIndex: i,
			}
			newSpan := depthBufferSpan{
				farDistance:   item.farDistance,
				nearDistance:  item.nearDistance,
				backItemIndex: i,
				itemCount:     1,
			}
			e.depthSpans = append(e.depthSpans, emptySpan, newSpan)
		} else {
			span.itemCount++
			if item.nearDistance < span.nearDistance {
				span.nearDistance = item.nearDistance
			}
		}
	}
}

// coalesceDepthBuffer merges runs of adjacent spans whose combined
// near/far ratio stays at or above preferredNearFarRatio. Merging reduces
// the number of rendering passes without sacrificing depth precision.
func (e *Engine) coalesceDepthBuffer() {
	e.mergedDepthSpans = e.mergedDepthSpans[:0]

	i := 0
	for i < len(e.depthSpans) {
		farDistance := e.depthSpans[i].farDistance
		itemCount := e.depthSpans[i].itemCount

		j := i
		for j < len(e.depthSpans)-1 {
			if e.depthSpans[j+1].nearDistance/farDistance < preferredNearFarRatio {
				break
			}
			itemCount += e.depthSpans[j+1].itemCount
			j++
		}

		e.mergedDepthSpans = append(e.mergedDepthSpans, depthBufferSpan{
			farDistance:   farDistance,
			nearDistance:  e.depthSpans[j].nearDistance,
			backItemIndex: e.depthSpans[i].backItemIndex,
			itemCount:     itemCount,
		})

		i = j + 1
	}
}

// extendSpansForSplittables adds synthesized spans at the back and front of
// the merged list so that splittable geometry (trajectories) is covered
// across the whole projection range. The back-then-front order here
// matters: the front extension loop walks from whatever the current
// nearest span is down to the projection near plane.
func (e *Engine) extendSpansForSplittables(projection scene.PlanarProjection) {
	if len(e.splittableItems) == 0 {
		return
	}

	// Synthesized spans use a looser far/near ratio than rendered geometry
	// spans: splittable geometry tolerates lower depth precision.
	const maxFarNearRatio = float32(10000.0)

	furthestDistance := e.splittableItems[0].farDistance
	if projFar := projection.FarDistance(); projFar < furthestDistance {
		furthestDistance = projFar
	}

	if len(e.mergedDepthSpans) == 0 {
		// Only splittable geometry is visible (e.g. a solar system view
		// showing nothing but orbits). One far span is enough to start.
		far := projection.FarDistance()
		near := far / maxFarNearRatio
		if projNear := projection.NearDistance(); projNear > near {
			near = projNear
		}
		e.mergedDepthSpans = append(e.mergedDepthSpans, depthBufferSpan{
			farDistance:  far,
			nearDistance: near,
		})
	} else if furthestDistance > e.mergedDepthSpans[0].farDistance {
		back := depthBufferSpan{
			farDistance:  furthestDistance,
			nearDistance: e.mergedDepthSpans[0].farDistance,
		}
		e.mergedDepthSpans = append([]depthBufferSpan{back}, e.mergedDepthSpans...)
	}

	// Spans are stored far-first, so the foreground span is the last one.
	for e.mergedDepthSpans[len(e.mergedDepthSpans)-1].nearDistance > projection.NearDistance() {
		front := depthBufferSpan{
			farDistance: e.mergedDepthSpans[len(e.mergedDepthSpans)-1].nearDistance,
		}
		front.nearDistance = front.farDistance / maxFarNearRatio
		if projNear := projection.NearDistance(); projNear > front.nearDistance {
			front.nearDistance = projNear
		}
		e.mergedDepthSpans = append(e.mergedDepthSpans, front)
	}

	// One extra span behind everything stretches the depth range covered
	// by the sky dome.
	back := depthBufferSpan{
		nearDistance: e.mergedDepthSpans[0].farDistance,
	}
	back.farDistance = back.nearDistance * maxFarNearRatio
	e.mergedDepthSpans = append([]depthBufferSpan{back}, e.mergedDepthSpans...)
}
