package parser

import "github.com/paperjet/paperjet/parser/dom"

// adoptionAgency handles end tags for formatting elements whose DOM position
// and stack position have drifted apart, rebuilding both so that formatting
// continuity survives mis-nesting. Both loops are bounded, so pathological
// inputs degrade instead of spinning.
func (c *HTMLTreeConstructor) adoptionAgency(t *Token) parseError {
	subject := t.TagName

	if top := c.openElements.top(); top.IsHTMLElement(subject) && !c.activeFormatting.contains(top) {
		c.openElements.pop()
		return noError
	}

	err := noError
	for outer := 0; outer < 8; outer++ {
		fe := c.activeFormatting.closestElementInScope(subject)
		if fe == nil {
			if e := c.anyOtherEndTagInBody(t); e != noError {
				err = e
			}
			return err
		}
		if !c.openElements.contains(fe) {
			c.activeFormatting.remove(fe)
			return generalParseError
		}
		if !c.openElements.hasElementInScope(fe) {
			return generalParseError
		}
		if fe != c.openElements.top() {
			err = generalParseError
		}

		furthestBlock := c.openElements.furthestBlock(fe)
		if furthestBlock == nil {
			// nothing special above the formatting element: plain close
			c.openElements.popUntilElementPopped(fe)
			c.activeFormatting.remove(fe)
			return err
		}

		commonAncestor := c.openElements.previous(fe)
		bookmark := c.activeFormatting.indexOf(fe)

		// walk up from the furthest block to the formatting element,
		// cloning live formatting entries and discarding the rest
		node := furthestBlock
		lastNode := furthestBlock
		nodeIdx := c.openElements.indexOf(furthestBlock)
		for inner := 0; ; inner++ {
			nodeIdx--
			node = c.openElements.at(nodeIdx)
			if node == fe {
				break
			}
			if inner >= 3 && c.activeFormatting.contains(node) {
				c.activeFormatting.remove(node)
			}
			if !c.activeFormatting.contains(node) {
				c.openElements.removeElement(node)
				continue
			}
			clone := node.CloneShallow()
			c.activeFormatting.replace(node, clone)
			c.openElements.replaceElement(node, clone)
			node = clone
			if lastNode == furthestBlock {
				bookmark = c.activeFormatting.indexOf(clone) + 1
			}
			lastNode.Detach()
			node.AppendChild(lastNode)
			lastNode = node
		}

		c.reparentToCommonAncestor(lastNode, commonAncestor)

		clone := fe.CloneShallow()
		furthestBlock.ReparentChildren(clone)
		furthestBlock.AppendChild(clone)

		feIdx := c.activeFormatting.indexOf(fe)
		c.activeFormatting.remove(fe)
		if feIdx < bookmark {
			bookmark--
		}
		c.activeFormatting.insertAt(bookmark, clone)

		c.openElements.removeElement(fe)
		c.openElements.insertAfter(furthestBlock, clone)
	}
	return err
}

// reparentToCommonAncestor moves lastNode under the common ancestor, foster
// parenting it when the ancestor is table structure.
func (c *HTMLTreeConstructor) reparentToCommonAncestor(lastNode, commonAncestor *dom.Node) {
	lastNode.Detach()
	if commonAncestor.IsHTMLElement("table", "tbody", "tfoot", "thead", "tr") {
		parent, before := c.fosterLocation()
		if before != nil {
			parent.InsertBefore(lastNode, before)
			return
		}
		parent.AppendChild(lastNode)
		return
	}
	commonAncestor.AppendChild(lastNode)
}
