// Package extract turns the raw report markup into ServerRecords.
//
// The report groups servers by data center:
//
//	<li class="report-dc">
//	  <h2 class="report-dc__name">Aether</h2>
//	  <div class="server-card">
//	    <p class="server-card__name">Adamant</p>
//	    <p class="server-card__status">Grade 5 underway</p>
//	    <p class="server-card__grade">5</p>
//	    <div class="server-card__bar bar--step-6"></div>
//	    <span class="server-card__transition"></span>  <!-- optional -->
//	  </div>
//	  ...
//	</li>
//
// Per card, progress resolves in priority order: a transition marker element
// forces maximum regardless of the bar's own gauge token; otherwise the
// gauge token on the bar element; otherwise step zero. If the status text
// contains "complete" (any case) the raw grade is decremented by one: the
// source counts the next grade while the previous one is displayed as
// finished. That is a documented quirk of the source, applied before any
// ranking or delta computation.
//
// A missing field on a single card never fails the scrape: text fields
// default to empty, a missing grade to 0. Only a document with no data
// center containers at all is an error.
package extract
